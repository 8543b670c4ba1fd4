package itl

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
	"github.com/mewkiz/itunesdb/internal/textdecode"
)

// parseLibraryLocation decodes the "msdh"-wrapped LIBRARY_LOCATION
// block. Unlike every other block type, its caller rewinds the cursor
// back to the block's own msdh header before calling this, since the
// path string's length is derived from data_len - header_len rather than
// from a nested per-type header.
func parseLibraryLocation(r *binreader.Reader) (string, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return "", errors.Wrap(err, "itl: read library-location msdh magic")
	}
	if header != sigMsdh {
		return "", errors.Wrapf(errkind.BadMagic, "itl: bad library-location magic %q, want %q", header, sigMsdh)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return "", errors.Wrap(err, "itl: read library-location header length")
	}
	totalLen, err := r.ReadUint32(8, false)
	if err != nil {
		return "", errors.Wrap(err, "itl: read library-location total length")
	}
	stringLen := int(totalLen) - int(headerLen)

	if err := r.Advance(int(headerLen)); err != nil {
		return "", errors.Wrap(err, "itl: advance past library-location header")
	}
	data, err := r.ReadBytes(0, stringLen)
	if err != nil {
		return "", errors.Wrap(err, "itl: read library-location string")
	}
	if err := r.Advance(stringLen); err != nil {
		return "", errors.Wrap(err, "itl: advance past library-location string")
	}
	return textdecode.UTF8(data), nil
}
