package musicdb

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parsePlmaLibrary decodes a "plma" library-master section into its
// flat list of boma containers. This is where the managed media folder
// path lives.
func parsePlmaLibrary(r *binreader.Reader) ([]Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read plma magic")
	}
	if header != sigPlma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad plma magic %q, want %q", header, sigPlma)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read plma length")
	}
	numBoma, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read plma boma count")
	}
	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past plma header")
	}

	var containers []Container
	for i := uint32(0); i < numBoma; i++ {
		container, err := parseBoma(r, nil, nil)
		if err != nil {
			return nil, err
		}
		if container != nil {
			containers = append(containers, *container)
		}
	}
	return containers, nil
}
