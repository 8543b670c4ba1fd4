package itl

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseMhghLibraryInfo decodes the "mhgh" library-settings block.
func parseMhghLibraryInfo(r *binreader.Reader) (*LibrarySettings, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhgh magic")
	}
	if header != sigMhgh {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad mhgh magic %q, want %q", header, sigMhgh)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhgh header length")
	}
	numMhoh, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhgh mhoh count")
	}
	listSize, err := r.ReadUint8(55)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhgh list size")
	}

	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past mhgh header")
	}

	info := &LibrarySettings{ListSize: ListSize(listSize)}
	for i := uint32(0); i < numMhoh; i++ {
		container, err := parseMhoh(r)
		if err != nil {
			return nil, err
		}
		if container != nil {
			info.Mhohs = append(info.Mhohs, *container)
		}
	}
	return info, nil
}
