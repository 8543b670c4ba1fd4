package itl

import (
	"bytes"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"
	"github.com/matryer/is"
)

func leU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func beU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
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

func padTo(buf []byte, total int) []byte {
	out := make([]byte, total)
	copy(out, buf)
	return out
}

func buildMhohFlex(subtype MhohType, stringType StringType, value []byte) []byte {
	b := make([]byte, 40+len(value))
	copy(b[0:4], sigMhoh)
	copy(b[8:12], leU32(uint32(len(b))))
	copy(b[12:16], leU32(uint32(subtype)))
	copy(b[24:28], leU32(uint32(stringType)))
	copy(b[28:32], leU32(uint32(len(value))))
	copy(b[40:], value)
	return b
}

func buildMith(persistentID uint64, id uint32, rating, unchecked uint8, mhoh []byte) []byte {
	const headerLen = 144
	header := padTo(nil, headerLen)
	copy(header[0:4], sigMith)
	copy(header[4:8], leU32(headerLen))
	copy(header[8:12], leU32(uint32(headerLen+len(mhoh))))
	copy(header[12:16], leU32(1))
	copy(header[16:20], leU32(id))
	copy(header[32:36], leU32(0))
	copy(header[108:109], []byte{rating})
	copy(header[110:111], []byte{unchecked})
	binary.LittleEndian.PutUint64(header[128:136], persistentID)
	return append(header, mhoh...)
}

func buildMlth(mith []byte) []byte {
	header := padTo(nil, 12)
	copy(header[0:4], sigMlth)
	copy(header[4:8], leU32(12))
	copy(header[8:12], leU32(1))
	return append(header, mith...)
}

func buildMsdh(blockType BlockType, child []byte) []byte {
	header := make([]byte, 16)
	copy(header[0:4], sigMsdh)
	copy(header[4:8], leU32(16))
	copy(header[8:12], leU32(uint32(16+len(child))))
	copy(header[12:16], leU32(uint32(blockType)))
	return append(header, child...)
}

func buildITLFile(t *testing.T, blocks []byte, numMsdh uint32) []byte {
	t.Helper()
	is := is.New(t)
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(blocks)
	is.NoErr(err)
	is.NoErr(zw.Close())

	const headerLen = 128
	file := make([]byte, headerLen+compressed.Len())
	copy(file[0:4], sigHdfm)
	binary.BigEndian.PutUint32(file[4:8], headerLen)
	binary.BigEndian.PutUint32(file[8:12], uint32(len(file)))
	file[16] = 7
	copy(file[17:24], "1.0.0.0")
	binary.BigEndian.PutUint32(file[48:52], numMsdh)
	// maxCryptSize left at 0: this fixture exercises the unencrypted path.
	copy(file[headerLen:], compressed.Bytes())
	return file
}

func TestParseTrackWithTitle(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")

	title := buildMhohFlex(MhohTrackTitle, StringTypeWideUtf16, utf16leBytes("Track Title"))
	mith := buildMith(0xAABBCCDDEEFF0011, 7, 80, 0, title)
	mlth := buildMlth(mith)
	msdh := buildMsdh(BlockTypeTrackMaster, mlth)

	file := buildITLFile(t, msdh, 1)

	lib, err := Parse(key, file)
	is.NoErr(err)
	is.Equal(len(lib.Tracks), 1)
	tr := lib.Tracks[0]
	is.Equal(tr.PersistentID, uint64(0xAABBCCDDEEFF0011))
	is.Equal(tr.ID, uint32(7))
	is.Equal(tr.Rating, uint8(80))
	is.Equal(len(tr.Mhohs), 1)
	is.Equal(tr.Mhohs[0].Value, "Track Title")
	is.Equal(len(lib.Warnings), 0)
}

func TestParseUnknownBlockTypeFatal(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")
	msdh := buildMsdh(BlockType(999), nil)
	file := buildITLFile(t, msdh, 1)
	_, err := Parse(key, file)
	is.True(err != nil) // a block type outside both the known and tracked-unknown sets is fatal
}

func TestParseBadOuterMagic(t *testing.T) {
	is := is.New(t)
	key := []byte("0123456789abcdef")
	file := buildITLFile(t, buildMsdh(BlockTypeTrackMaster, buildMlth(nil)), 1)
	file[0] = 'x'
	_, err := Parse(key, file)
	is.True(err != nil) // a corrupted outer magic must be rejected
}
