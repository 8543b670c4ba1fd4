// Package errkind holds the sentinel error values shared across
// musicdb, itl, library, and the root itunesdb package, so that a
// caller can match a wrapped error's kind by comparing errors.Cause
// (github.com/pkg/errors) against these values, regardless of which
// package produced it.
package errkind

import "github.com/pkg/errors"

var (
	// BadMagic reports a section, block, or container whose leading
	// 4-byte tag did not match what its position in the tree requires.
	BadMagic = errors.New("bad magic")
	// LengthMismatch reports a declared file, section, or container
	// length that does not match the bytes actually present.
	LengthMismatch = errors.New("length mismatch")
	// TruncatedInput reports a read that ran past the end of the
	// available buffer.
	TruncatedInput = errors.New("truncated input")
	// UnknownSectionType reports an itl msdh block type that the itl
	// parser has no decoder for: any type outside the format's known
	// enumeration, and also the enumerated XML block type (19). musicdb
	// has no equivalent: its section
	// engine tolerates unknown types by skipping them.
	UnknownSectionType = errors.New("unknown section type")
	// BadKey reports a decryption key that is not exactly 16 bytes.
	BadKey = errors.New("bad key")
	// Inflate reports a zlib stream that failed to decompress.
	Inflate = errors.New("inflate error")
	// MissingSection reports a view-layer query made against a library
	// that never supplied the section backing it.
	MissingSection = errors.New("missing section")
)
