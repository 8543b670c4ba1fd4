package musicdb

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseLamaAlbumArtist decodes an album-data ("lama") or artist-data
// ("lAma") section into an ordered list of its child items ("iama" /
// "iAma"), each represented by its own list of boma containers.
func parseLamaAlbumArtist(expectedHeader, expectedItemHeader string, r *binreader.Reader) ([][]Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lama/lAma magic")
	}
	if header != expectedHeader {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad magic %q, want %q", header, expectedHeader)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lama/lAma length")
	}
	numItem, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lama/lAma count")
	}
	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past lama/lAma header")
	}

	items := make([][]Container, 0, numItem)
	for i := uint32(0); i < numItem; i++ {
		item, err := parseIamaItem(expectedItemHeader, r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// parseIamaItem decodes a single "iama" / "iAma" item into its child
// boma containers.
func parseIamaItem(expectedHeader string, r *binreader.Reader) ([]Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read iama/iAma magic")
	}
	if header != expectedHeader {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad magic %q, want %q", header, expectedHeader)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read iama/iAma length")
	}
	sectionsLen, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read iama/iAma sections length")
	}
	numBoma, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read iama/iAma boma count")
	}
	expectedEndPos := r.Pos() + int(sectionsLen)

	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past iama/iAma header")
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

	if r.Pos() != expectedEndPos {
		return nil, errors.Wrapf(errkind.LengthMismatch, "musicdb: iama/iAma item ended at %d, expected %d", r.Pos(), expectedEndPos)
	}
	return containers, nil
}
