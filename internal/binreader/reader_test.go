package binreader

import (
	"testing"

	"github.com/matryer/is"
)

func TestReadDoesNotAdvance(t *testing.T) {
	is := is.New(t)
	r := New([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	v, err := r.ReadUint32(0, false)
	is.NoErr(err)
	is.Equal(v, uint32(0x04030201))
	is.Equal(r.Pos(), 0)
}

func TestAdvance(t *testing.T) {
	is := is.New(t)
	r := New(make([]byte, 16))
	is.NoErr(r.Advance(8))
	is.Equal(r.Pos(), 8)
	is.NoErr(r.Advance(-4))
	is.Equal(r.Pos(), 4)
}

func TestOutOfRange(t *testing.T) {
	is := is.New(t)
	r := New(make([]byte, 4))
	_, err := r.ReadUint32(1, false)
	is.True(err != nil) // reading past the buffer end must fail
	is.True(r.Advance(5) != nil)
}

func TestReadFixedStringTrimsNUL(t *testing.T) {
	is := is.New(t)
	buf := make([]byte, 8)
	copy(buf, "hi")
	r := New(buf)
	s, err := r.ReadFixedString(0, 8)
	is.NoErr(err)
	is.Equal(s, "hi")
}

func TestBigEndian(t *testing.T) {
	is := is.New(t)
	r := New([]byte{0x00, 0x00, 0x00, 0x2A})
	v, err := r.ReadUint32(0, true)
	is.NoErr(err)
	is.Equal(v, uint32(42))
}
