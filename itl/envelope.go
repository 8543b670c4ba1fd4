package itl

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
	"github.com/mewkiz/itunesdb/internal/textdecode"
)

// parseMfdhOuterEnvelope decodes the "mfdh" block, a copy of the
// application version string embedded inline within the section tree.
// It re-reads its own 4-byte magic and header length, since mfdh carries
// a different header shape than the generic msdh wrapper its caller
// already consumed.
func parseMfdhOuterEnvelope(r *binreader.Reader) (string, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return "", errors.Wrap(err, "itl: read mfdh magic")
	}
	if header != sigMfdh {
		return "", errors.Wrapf(errkind.BadMagic, "itl: bad mfdh magic %q, want %q", header, sigMfdh)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return "", errors.Wrap(err, "itl: read mfdh header length")
	}
	versionStrLen, err := r.ReadUint8(16)
	if err != nil {
		return "", errors.Wrap(err, "itl: read mfdh version string length")
	}
	data, err := r.ReadBytes(17, int(versionStrLen))
	if err != nil {
		return "", errors.Wrap(err, "itl: read mfdh version string")
	}
	if err := r.Advance(int(headerLen)); err != nil {
		return "", errors.Wrap(err, "itl: advance past mfdh header")
	}
	return textdecode.UTF8(data), nil
}
