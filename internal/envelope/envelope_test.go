package envelope

import (
	"bytes"
	"crypto/aes"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/matryer/is"
)

func encryptPrefix(t *testing.T, key, data []byte, cryptSize int) []byte {
	t.Helper()
	is := is.New(t)
	block, err := aes.NewCipher(key)
	is.NoErr(err)
	out := make([]byte, len(data))
	copy(out, data)
	for i := 0; i < cryptSize; i += block.BlockSize() {
		block.Encrypt(out[i:i+block.BlockSize()], data[i:i+block.BlockSize()])
	}
	return out
}

func TestCryptSize(t *testing.T) {
	is := is.New(t)
	is.Equal(CryptSize(100, 128), 100)
	is.Equal(CryptSize(200, 128), 128)
}

func TestDecode(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")
	plain := []byte("hello world, this is the inner section tree payload")

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(plain)
	is.NoErr(err)
	is.NoErr(zw.Close())

	body := compressed.Bytes()
	cryptSize := CryptSize(len(body), 16)
	cryptSize -= cryptSize % aes.BlockSize
	encrypted := encryptPrefix(t, key, body, cryptSize)

	got, err := Decode(key, encrypted, cryptSize)
	is.NoErr(err)
	is.Equal(got, plain)
}
