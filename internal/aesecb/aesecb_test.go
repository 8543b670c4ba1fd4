package aesecb

import (
	"bytes"
	"crypto/aes"
	"testing"

	"github.com/matryer/is"
)

func TestDecryptRoundTrip(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")
	plain := bytes.Repeat([]byte{0xAB}, 32)

	block, err := aes.NewCipher(key)
	is.NoErr(err)
	cipherText := make([]byte, len(plain))
	for i := 0; i < len(plain); i += block.BlockSize() {
		block.Encrypt(cipherText[i:i+block.BlockSize()], plain[i:i+block.BlockSize()])
	}

	got, err := Decrypt(key, cipherText)
	is.NoErr(err)
	is.Equal(got, plain)
}

func TestDecryptBadKeySize(t *testing.T) {
	is := is.New(t)
	_, err := Decrypt([]byte("short"), make([]byte, 16))
	is.True(err != nil) // a non-16-byte key must be rejected
}

func TestDecryptUnalignedData(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")
	_, err := Decrypt(key, make([]byte, 17))
	is.True(err != nil) // data not a multiple of the block size must be rejected
}
