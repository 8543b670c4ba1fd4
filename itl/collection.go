package itl

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseMlahAlbumCollection decodes an "mlah" block into an ordered list
// of its child "miah" items, each represented by its own list of mhoh
// containers.
func parseMlahAlbumCollection(r *binreader.Reader) ([][]Container, error) {
	return parseChildGroup(r, sigMlah, sigMiah)
}

// parseMlihArtist decodes an "mlih" block into an ordered list of its
// child "miih" items, each represented by its own list of mhoh
// containers.
func parseMlihArtist(r *binreader.Reader) ([][]Container, error) {
	return parseChildGroup(r, sigMlih, sigMiih)
}

// parseChildGroup decodes a {header-length, count}-shaped block whose
// children are themselves {header-length, mhoh-count}-shaped items. Both
// the mlah/miah and mlih/miih pairs share this exact layout.
func parseChildGroup(r *binreader.Reader, groupMagic, itemMagic string) ([][]Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrapf(err, "itl: read %s magic", groupMagic)
	}
	if header != groupMagic {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad magic %q, want %q", header, groupMagic)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrapf(err, "itl: read %s header length", groupMagic)
	}
	numItems, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrapf(err, "itl: read %s item count", groupMagic)
	}
	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrapf(err, "itl: advance past %s header", groupMagic)
	}

	items := make([][]Container, 0, numItems)
	for i := uint32(0); i < numItems; i++ {
		item, err := parseChildItem(r, itemMagic)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseChildItem(r *binreader.Reader, itemMagic string) ([]Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrapf(err, "itl: read %s magic", itemMagic)
	}
	if header != itemMagic {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad magic %q, want %q", header, itemMagic)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrapf(err, "itl: read %s header length", itemMagic)
	}
	numMhoh, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrapf(err, "itl: read %s mhoh count", itemMagic)
	}
	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrapf(err, "itl: advance past %s header", itemMagic)
	}

	var containers []Container
	for i := uint32(0); i < numMhoh; i++ {
		container, err := parseMhoh(r)
		if err != nil {
			return nil, err
		}
		if container != nil {
			containers = append(containers, *container)
		}
	}
	return containers, nil
}
