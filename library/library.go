// Package library implements the read-only view layer shared by both
// the musicdb and itl parsers: promoting their raw, format-specific
// decode trees into a single Track/Playlist model with normalized
// timestamps and flattened metadata.
package library

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/itl"
	"github.com/mewkiz/itunesdb/musicdb"
)

// macEpoch is the Mac/HFS+ epoch (1904-01-01 UTC) that every timestamp
// field in both library formats is relative to.
var macEpoch = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)

// Timestamp converts secsSince1904, a raw timestamp field, into a wall
// clock time adjusted by tzOffset seconds. A raw value of 0 means "no
// timestamp", matching both formats' convention, and is reported via ok.
func Timestamp(secsSince1904 uint32, tzOffset int32) (t time.Time, ok bool) {
	if secsSince1904 == 0 {
		return time.Time{}, false
	}
	return macEpoch.Add(time.Duration(int64(secsSince1904)+int64(tzOffset)) * time.Second), true
}

// Track is the promoted, format-agnostic view of a library track.
type Track struct {
	PersistentID uint64
	ID           uint32
	Rating       uint8
	Unchecked    bool

	DateAdded      time.Time
	DateModified   time.Time
	DateLastPlayed time.Time
	PlayCount      uint32
	SongTimeMs     uint32
	FileSize       uint32
	Bitrate        uint32

	// Metadata holds every named tag the source container carried,
	// keyed by its lowercased tag name.
	Metadata map[string]string
}

// TrackOption configures TracksFromMusicDB and TracksFromITL.
type TrackOption func(*trackConfig)

type trackConfig struct {
	keepXlmBlocks bool
}

// WithXlmBlocks retains metadata keys beginning with "xlm_block" (raw
// embedded XML fragments), which are dropped by default.
func WithXlmBlocks() TrackOption {
	return func(c *trackConfig) { c.keepXlmBlocks = true }
}

func applyTrackOptions(opts []TrackOption) *trackConfig {
	cfg := &trackConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func setKey(m map[string]string, key, value string, cfg *trackConfig) {
	if key == "" {
		return
	}
	if !cfg.keepXlmBlocks && strings.HasPrefix(key, "xlm_block") {
		return
	}
	if _, exists := m[key]; exists {
		return
	}
	m[key] = value
}

// TracksFromMusicDB promotes every track in raw to the view-layer Track
// type.
func TracksFromMusicDB(raw *musicdb.RawLibrary, opts ...TrackOption) ([]Track, error) {
	if raw.Tracks == nil {
		return nil, errors.Wrap(errkind.MissingSection, "library: track section not found")
	}
	cfg := applyTrackOptions(opts)
	out := make([]Track, 0, len(raw.Tracks))
	for _, src := range raw.Tracks {
		t := Track{
			PersistentID: src.PersistentID,
			ID:           src.ID,
			Rating:       src.Rating,
			Unchecked:    src.Unchecked != 0,
			Metadata:     make(map[string]string),
		}
		if src.DateAdded != nil {
			t.DateAdded, _ = Timestamp(*src.DateAdded, raw.TzOffset)
		}
		if src.DateModified != nil {
			t.DateModified, _ = Timestamp(*src.DateModified, raw.TzOffset)
		}
		if src.DateLastPlayed != nil {
			t.DateLastPlayed, _ = Timestamp(*src.DateLastPlayed, raw.TzOffset)
		}
		if src.PlayCount != nil {
			t.PlayCount = *src.PlayCount
		}
		if src.SongTimeMs != nil {
			t.SongTimeMs = *src.SongTimeMs
		}
		if src.FileSize != nil {
			t.FileSize = *src.FileSize
		}
		if src.Bitrate != nil {
			t.Bitrate = *src.Bitrate
		}
		for _, c := range src.Bomas {
			setKey(t.Metadata, c.Type.Name(), c.Value, cfg)
		}
		out = append(out, t)
	}
	return out, nil
}

// TracksFromITL promotes every track in raw to the view-layer Track
// type.
func TracksFromITL(raw *itl.RawLibrary, opts ...TrackOption) ([]Track, error) {
	if raw.Tracks == nil {
		return nil, errors.Wrap(errkind.MissingSection, "library: track section not found")
	}
	cfg := applyTrackOptions(opts)
	out := make([]Track, 0, len(raw.Tracks))
	for _, src := range raw.Tracks {
		t := Track{
			PersistentID: src.PersistentID,
			ID:           src.ID,
			Rating:       src.Rating,
			Unchecked:    src.Unchecked != 0,
			PlayCount:    src.PlayCount,
			Metadata:     make(map[string]string),
		}
		t.DateAdded, _ = Timestamp(src.DateAdded, raw.TzOffset)
		t.DateModified, _ = Timestamp(src.DateModified, raw.TzOffset)
		t.DateLastPlayed, _ = Timestamp(src.DateLastPlayed, raw.TzOffset)
		for _, c := range src.Mhohs {
			setKey(t.Metadata, c.Type.Name(), c.Value, cfg)
		}
		out = append(out, t)
	}
	return out, nil
}

// Playlist is the promoted, format-agnostic view of a library playlist.
type Playlist struct {
	Name               string
	PersistentID       uint64
	DateCreated        time.Time
	DateModified       time.Time
	IsSmart            bool
	IsFolder           bool
	PersistentTrackIDs []uint64
}

// PlaylistsFromMusicDB promotes every playlist in raw to the view-layer
// Playlist type. Playlists with no name container are silently dropped,
// matching the reference parser.
func PlaylistsFromMusicDB(raw *musicdb.RawLibrary) ([]Playlist, error) {
	if raw.Playlists == nil {
		return nil, errors.Wrap(errkind.MissingSection, "library: playlist section not found")
	}
	var out []Playlist
	for _, src := range raw.Playlists {
		name, ok := findMusicDBName(src.Bomas)
		if !ok {
			continue
		}
		dateCreated, _ := Timestamp(src.DateCreated, raw.TzOffset)
		dateModified, _ := Timestamp(src.DateModified, raw.TzOffset)
		out = append(out, Playlist{
			Name:               name,
			PersistentID:       src.PersistentID,
			DateCreated:        dateCreated,
			DateModified:       dateModified,
			IsSmart:            src.IsSmart,
			IsFolder:           src.IsFolder,
			PersistentTrackIDs: src.PersistentTrackIDs,
		})
	}
	return out, nil
}

func findMusicDBName(bomas []musicdb.Container) (string, bool) {
	for _, c := range bomas {
		if c.Type == musicdb.BomaPlaylistName {
			return c.Value, true
		}
	}
	return "", false
}

// PlaylistsFromITL promotes every playlist in raw to the view-layer
// Playlist type. Playlists with no name container are silently dropped.
func PlaylistsFromITL(raw *itl.RawLibrary) ([]Playlist, error) {
	if raw.Playlists == nil {
		return nil, errors.Wrap(errkind.MissingSection, "library: playlist section not found")
	}
	var out []Playlist
	for _, src := range raw.Playlists {
		name, ok := findITLName(src.Mhohs)
		if !ok {
			continue
		}
		out = append(out, Playlist{
			Name:               name,
			PersistentID:       src.PersistentID,
			IsSmart:            false,
			IsFolder:           false,
			PersistentTrackIDs: widenTrackIdentifiers(src.TrackIdentifiers),
		})
	}
	return out, nil
}

// widenTrackIdentifiers converts itl's plain uint32 track identifiers to
// the uint64 PersistentTrackIDs field shared with musicdb, whose ipfa
// containers carry true 64-bit persistent track IDs. itl never exposes a
// wider identifier, so each value is simply zero-extended.
func widenTrackIdentifiers(ids []uint32) []uint64 {
	if ids == nil {
		return nil
	}
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out
}

func findITLName(mhohs []itl.Container) (string, bool) {
	for _, c := range mhohs {
		if c.Type == itl.MhohPlaylistName {
			return c.Value, true
		}
	}
	return "", false
}

// LocationFromMusicDB returns the library's managed media folder path.
// includeFilePrefix controls whether the leading "file://localhost" is
// stripped (the default), leaving the path's own leading "/", or retained.
func LocationFromMusicDB(raw *musicdb.RawLibrary, includeFilePrefix bool) (string, error) {
	for _, c := range raw.LibraryMaster {
		if c.Type == musicdb.BomaManagedMediaFolder {
			return cleanLocation(c.Value, includeFilePrefix)
		}
	}
	return "", errors.Wrap(errkind.MissingSection, "library: no media folder entry found")
}

// LocationFromITL returns the library's location path, following the
// same URL-unescape and optional file-prefix-strip rule as
// LocationFromMusicDB.
func LocationFromITL(raw *itl.RawLibrary, includeFilePrefix bool) (string, error) {
	if raw.LibraryLocation == "" {
		return "", errors.Wrap(errkind.MissingSection, "library: no media folder entry found")
	}
	return cleanLocation(raw.LibraryLocation, includeFilePrefix)
}

const fileLocalhostPrefix = "file://localhost"

func cleanLocation(raw string, includeFilePrefix bool) (string, error) {
	// PathUnescape (not QueryUnescape) matches Python's urllib.parse.unquote:
	// '+' is left as a literal character, only %XX sequences are decoded.
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.Wrap(err, "library: unescape media folder path")
	}
	if !includeFilePrefix {
		unescaped = strings.TrimPrefix(unescaped, fileLocalhostPrefix)
	}
	return unescaped, nil
}
