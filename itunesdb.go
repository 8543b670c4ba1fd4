// Package itunesdb reads Apple Music and iTunes library database files:
// the modern Library.musicdb format and the legacy .itl format. Both are
// AES-128-ECB-encrypted, zlib-compressed trees of fixed-layout sections;
// this package decodes either into a single, format-agnostic Library
// value exposing tracks, playlists, and the library's media folder
// location.
package itunesdb

import (
	"io"
	"os"

	"github.com/mewkiz/pkg/osutil"
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/itl"
	"github.com/mewkiz/itunesdb/library"
	"github.com/mewkiz/itunesdb/musicdb"
)

// Format identifies which of the two on-disk dialects a Library was
// decoded from.
type Format int

const (
	// FormatMusicDB is the modern Library.musicdb format.
	FormatMusicDB Format = iota
	// FormatITL is the legacy .itl format.
	FormatITL
)

func (f Format) String() string {
	switch f {
	case FormatMusicDB:
		return "musicdb"
	case FormatITL:
		return "itl"
	default:
		return "unknown"
	}
}

const (
	musicdbMagic = "hfma"
	itlMagic     = "hdfm"
)

// Library is a decoded Apple Music / iTunes library database, holding
// the raw per-format decode tree. Tracks, Playlists and Location build
// the promoted, format-agnostic view from it on each call.
type Library struct {
	Format Format

	RawMusicDB *musicdb.RawLibrary
	RawITL     *itl.RawLibrary
}

// Open reads the file at filePath and parses it as either a musicdb or
// itl library database, sniffing the format from its magic bytes. key
// must be the library's 16-byte decryption key.
func Open(filePath string, key []byte) (*Library, error) {
	if !osutil.Exists(filePath) {
		return nil, errors.Errorf("itunesdb: no such file: %s", filePath)
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "itunesdb: open")
	}
	defer f.Close()
	return OpenReader(f, key)
}

// OpenReader reads all of r and parses it as either a musicdb or itl
// library database, sniffing the format from its magic bytes.
func OpenReader(r io.Reader, key []byte) (*Library, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "itunesdb: read")
	}
	if len(data) < 4 {
		return nil, errors.Wrap(ErrTruncatedInput, "itunesdb: file too short to contain a magic")
	}
	switch string(data[:4]) {
	case musicdbMagic:
		raw, err := musicdb.Parse(key, data)
		if err != nil {
			return nil, err
		}
		return &Library{Format: FormatMusicDB, RawMusicDB: raw}, nil
	case itlMagic:
		raw, err := itl.Parse(key, data)
		if err != nil {
			return nil, err
		}
		return &Library{Format: FormatITL, RawITL: raw}, nil
	default:
		return nil, errors.Wrapf(ErrBadMagic, "itunesdb: unrecognized magic %q", data[:4])
	}
}

// OpenMusicDB reads the file at filePath and parses it strictly as a
// Library.musicdb file.
func OpenMusicDB(filePath string, key []byte) (*musicdb.RawLibrary, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "itunesdb: read musicdb file")
	}
	return musicdb.Parse(key, data)
}

// OpenITL reads the file at filePath and parses it strictly as a legacy
// .itl file.
func OpenITL(filePath string, key []byte, opts ...itl.ParseOption) (*itl.RawLibrary, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "itunesdb: read itl file")
	}
	return itl.Parse(key, data, opts...)
}

// Tracks returns the promoted view of every track in the library.
func (l *Library) Tracks(opts ...library.TrackOption) ([]library.Track, error) {
	switch l.Format {
	case FormatMusicDB:
		return library.TracksFromMusicDB(l.RawMusicDB, opts...)
	case FormatITL:
		return library.TracksFromITL(l.RawITL, opts...)
	default:
		return nil, errors.New("itunesdb: library has no recognized format")
	}
}

// Playlists returns the promoted view of every playlist in the library.
func (l *Library) Playlists() ([]library.Playlist, error) {
	switch l.Format {
	case FormatMusicDB:
		return library.PlaylistsFromMusicDB(l.RawMusicDB)
	case FormatITL:
		return library.PlaylistsFromITL(l.RawITL)
	default:
		return nil, errors.New("itunesdb: library has no recognized format")
	}
}

// Location returns the library's managed media folder path.
func (l *Library) Location(includeFilePrefix bool) (string, error) {
	switch l.Format {
	case FormatMusicDB:
		return library.LocationFromMusicDB(l.RawMusicDB, includeFilePrefix)
	case FormatITL:
		return library.LocationFromITL(l.RawITL, includeFilePrefix)
	default:
		return "", errors.New("itunesdb: library has no recognized format")
	}
}

// Warnings returns non-fatal anomalies collected while parsing. Only
// the itl format currently produces any.
func (l *Library) Warnings() []string {
	if l.Format == FormatITL && l.RawITL != nil {
		return l.RawITL.Warnings
	}
	return nil
}
