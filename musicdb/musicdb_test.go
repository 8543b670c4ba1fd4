package musicdb

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"
	"github.com/matryer/is"
)

func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func u16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func utf16leBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[2*i:], u)
	}
	return out
}

func pad(buf []byte, total int) []byte {
	out := make([]byte, total)
	copy(out, buf)
	return out
}

// buildTrackTitleBoma returns a "boma" container holding a wide-char
// track title: a 36-byte header followed by the UTF-16LE title bytes.
func buildTrackTitleBoma(title string) []byte {
	strData := utf16leBytes(title)
	b := make([]byte, 36+len(strData))
	copy(b[0:4], sigBoma)
	copy(b[8:12], u32(uint32(len(b))))
	copy(b[12:16], u32(uint32(BomaTrackTitle)))
	copy(b[24:28], u32(uint32(len(strData))))
	copy(b[36:], strData)
	return b
}

func buildItma(persistentID uint64, id uint32, rating uint8, boma []byte) []byte {
	header := pad(nil, 80)
	copy(header[0:4], sigItma)
	copy(header[4:8], u32(80))
	copy(header[12:16], u32(1))
	copy(header[16:24], u64(persistentID))
	copy(header[24:28], u32(id))
	copy(header[62:64], u16(2))
	header[65] = rating
	return append(header, boma...)
}

func buildLtma(itma []byte) []byte {
	header := pad(nil, 16)
	copy(header[0:4], sigLtma)
	copy(header[4:8], u32(16))
	copy(header[8:12], u32(1))
	return append(header, itma...)
}

func buildHsma(sectionType uint32, child []byte) []byte {
	header := make([]byte, 16)
	copy(header[0:4], sigHsma)
	copy(header[4:8], u32(16))
	copy(header[8:12], u32(uint32(16+len(child))))
	copy(header[12:16], u32(sectionType))
	return append(header, child...)
}

func buildMusicDBFile(t *testing.T, key []byte, sections []byte) []byte {
	t.Helper()
	is := is.New(t)
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(sections)
	is.NoErr(err)
	is.NoErr(zw.Close())

	const headerLen = 128
	file := make([]byte, headerLen+compressed.Len())
	copy(file[0:4], sigHfma)
	binary.LittleEndian.PutUint32(file[4:8], uint32(headerLen))
	binary.LittleEndian.PutUint32(file[8:12], uint32(len(file)))
	copy(file[16:48], "1.0.0.0")
	// maxCryptSize left at 0: this fixture exercises the unencrypted path.
	copy(file[headerLen:], compressed.Bytes())
	return file
}

func TestParseTrackWithTitle(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")

	boma := buildTrackTitleBoma("Track Title")
	itma := buildItma(0x1122334455667788, 42, 80, boma)
	ltma := buildLtma(itma)
	hsma := buildHsma(1, ltma)

	file := buildMusicDBFile(t, key, hsma)

	lib, err := Parse(key, file)
	is.NoErr(err)
	is.Equal(len(lib.Tracks), 1)
	tr := lib.Tracks[0]
	is.Equal(tr.PersistentID, uint64(0x1122334455667788))
	is.Equal(tr.ID, uint32(42))
	is.True(tr.Starred)
	is.Equal(tr.Rating, uint8(80))
	is.Equal(tr.Stars(), 4)
	is.Equal(len(tr.Bomas), 1)
	is.Equal(tr.Bomas[0].Value, "Track Title")
}

func TestParseBadMagic(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")
	file := buildMusicDBFile(t, key, buildHsma(1, buildLtma(nil)))
	file[0] = 'x'
	_, err := Parse(key, file)
	is.True(err != nil) // a corrupted outer magic must be rejected
}
