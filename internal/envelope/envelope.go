// Package envelope implements the body-decode pipeline shared by the
// musicdb and itl formats: a bounded prefix of the file body is
// AES-128-ECB encrypted, the remainder is plaintext, and the
// concatenation of decrypted-prefix and plaintext-suffix is a zlib
// stream holding the section/block tree.
package envelope

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/aesecb"
)

// CryptSize computes the number of leading bytes of body that are
// encrypted: the lesser of the body's own length and the format's
// declared maxCryptSize.
func CryptSize(bodyLen, maxCryptSize int) int {
	if bodyLen < maxCryptSize {
		return bodyLen
	}
	return maxCryptSize
}

// Decode decrypts the leading cryptSize bytes of body with key, leaves
// the remainder untouched, concatenates the two, and inflates the
// result.
func Decode(key, body []byte, cryptSize int) ([]byte, error) {
	if cryptSize < 0 || cryptSize > len(body) {
		return nil, errors.Wrapf(errkind.LengthMismatch, "envelope: crypt size %d out of range for body of length %d", cryptSize, len(body))
	}
	plain, err := aesecb.Decrypt(key, body[:cryptSize])
	if err != nil {
		return nil, errors.Wrap(err, "envelope: decrypt")
	}
	combined := make([]byte, 0, len(body))
	combined = append(combined, plain...)
	combined = append(combined, body[cryptSize:]...)

	zr, err := zlib.NewReader(bytes.NewReader(combined))
	if err != nil {
		return nil, errors.Wrapf(errkind.Inflate, "envelope: zlib header: %v", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrapf(errkind.Inflate, "envelope: inflate: %v", err)
	}
	return out, nil
}
