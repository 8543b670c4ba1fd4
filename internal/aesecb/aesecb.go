// Package aesecb implements AES-128 decryption in ECB mode with no
// padding, the scheme Apple Music and iTunes use to obscure the body of
// a Library.musicdb or .itl file.
//
// Go's crypto/cipher package deliberately ships no ECB BlockMode (ECB
// leaks repeated-plaintext structure), so ECB is implemented here as a
// direct per-block loop over crypto/aes, the same approach taken by
// every other Go implementation of this exact format.
package aesecb

import (
	"crypto/aes"

	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
)

// KeySize is the only key length Apple Music / iTunes library files use.
const KeySize = 16

// Decrypt decrypts data using AES-128-ECB with key and returns the
// plaintext in a new slice; data itself is left unchanged. len(data)
// must be a multiple of the AES block size (16), zero included; this
// holds for the bounded crypt_size prefix the outer envelope computes.
func Decrypt(key, data []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, errors.Wrapf(errkind.BadKey, "aesecb: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "aesecb: new cipher")
	}
	bs := block.BlockSize()
	if len(data)%bs != 0 {
		return nil, errors.Errorf("aesecb: data length %d is not a multiple of block size %d", len(data), bs)
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	return out, nil
}
