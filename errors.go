package itunesdb

import "github.com/mewkiz/itunesdb/errkind"

// Sentinel error kinds a caller can compare against the result of
// errors.Cause from github.com/pkg/errors. Parse errors returned by
// musicdb, itl, and library wrap these (defined once, in errkind, to
// avoid an import cycle with the root package) via github.com/pkg/errors,
// so the underlying offset or tag detail survives in the message while
// the kind remains comparable. The pinned github.com/pkg/errors release
// has no Unwrap methods, so the standard library's errors.Is does not
// see through these wrappers.
var (
	ErrBadMagic           = errkind.BadMagic
	ErrLengthMismatch     = errkind.LengthMismatch
	ErrTruncatedInput     = errkind.TruncatedInput
	ErrUnknownSectionType = errkind.UnknownSectionType
	ErrBadKey             = errkind.BadKey
	ErrInflate            = errkind.Inflate
	ErrMissingSection     = errkind.MissingSection
)
