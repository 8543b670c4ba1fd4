// Package binreader provides an offset-addressed, bounds-checked cursor
// over an in-memory byte buffer.
//
// Reads are always relative to the current cursor position plus an
// explicit byte offset; they never move the cursor themselves. Advancing
// the cursor is a separate, explicit operation. This mirrors the way the
// Apple Music / iTunes library formats are parsed: a section header is
// read by peeking at several absolute offsets before the cursor is moved
// past the header and into the section body.
package binreader

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
)

// ErrOutOfRange is wrapped by every read or advance that would step
// outside the buffer. Its cause is errkind.TruncatedInput.
var ErrOutOfRange = errors.Wrap(errkind.TruncatedInput, "binreader: offset out of range")

// Reader is a cursor over a byte buffer. The zero value is not usable;
// construct one with New.
type Reader struct {
	buf []byte
	pos int
}

// New returns a Reader positioned at the start of buf. The Reader does
// not copy buf; callers must not mutate it while the Reader is in use.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the total length of the underlying buffer.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Pos returns the current cursor position.
func (r *Reader) Pos() int {
	return r.pos
}

// Bytes returns the underlying buffer. Callers must treat it as
// read-only.
func (r *Reader) Bytes() []byte {
	return r.buf
}

// Advance moves the cursor forward by n bytes. n may be negative, to
// support the itl format's header rewind when re-reading a block under a
// different field layout.
func (r *Reader) Advance(n int) error {
	next := r.pos + n
	if next < 0 || next > len(r.buf) {
		return errors.Wrapf(ErrOutOfRange, "advance to %d (len %d)", next, len(r.buf))
	}
	r.pos = next
	return nil
}

// Seek moves the cursor to an absolute position.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.buf) {
		return errors.Wrapf(ErrOutOfRange, "seek to %d (len %d)", pos, len(r.buf))
	}
	r.pos = pos
	return nil
}

// slice returns buf[r.pos+offset : r.pos+offset+length], validating
// bounds first.
func (r *Reader) slice(offset, length int) ([]byte, error) {
	start := r.pos + offset
	end := start + length
	if start < 0 || end < start || end > len(r.buf) {
		return nil, errors.Wrapf(ErrOutOfRange, "read [%d:%d) (len %d)", start, end, len(r.buf))
	}
	return r.buf[start:end], nil
}

// ReadBytes reads length bytes at r.Pos()+offset without advancing the
// cursor.
func (r *Reader) ReadBytes(offset, length int) ([]byte, error) {
	b, err := r.slice(offset, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadUint8 reads a single byte at r.Pos()+offset.
func (r *Reader) ReadUint8(offset int) (uint8, error) {
	b, err := r.slice(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a 16-bit unsigned integer at r.Pos()+offset.
func (r *Reader) ReadUint16(offset int, bigEndian bool) (uint16, error) {
	b, err := r.slice(offset, 2)
	if err != nil {
		return 0, err
	}
	if bigEndian {
		return binary.BigEndian.Uint16(b), nil
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a 32-bit unsigned integer at r.Pos()+offset.
func (r *Reader) ReadUint32(offset int, bigEndian bool) (uint32, error) {
	b, err := r.slice(offset, 4)
	if err != nil {
		return 0, err
	}
	if bigEndian {
		return binary.BigEndian.Uint32(b), nil
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a signed 32-bit integer at r.Pos()+offset.
func (r *Reader) ReadInt32(offset int, bigEndian bool) (int32, error) {
	v, err := r.ReadUint32(offset, bigEndian)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// ReadUint64 reads a 64-bit unsigned integer at r.Pos()+offset.
func (r *Reader) ReadUint64(offset int, bigEndian bool) (uint64, error) {
	b, err := r.slice(offset, 8)
	if err != nil {
		return 0, err
	}
	if bigEndian {
		return binary.BigEndian.Uint64(b), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadFixedString reads length bytes at r.Pos()+offset and trims
// everything from the first NUL byte onward, matching the C-string
// convention used for the version-string fields in both library formats.
func (r *Reader) ReadFixedString(offset, length int) (string, error) {
	b, err := r.slice(offset, length)
	if err != nil {
		return "", err
	}
	if i := indexNUL(b); i >= 0 {
		b = b[:i]
	}
	return string(b), nil
}

func indexNUL(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
