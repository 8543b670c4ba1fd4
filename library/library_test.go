package library

import (
	"testing"

	"github.com/matryer/is"

	"github.com/mewkiz/itunesdb/itl"
	"github.com/mewkiz/itunesdb/musicdb"
)

func uint32p(v uint32) *uint32 { return &v }

func TestTracksFromMusicDBFlattensMetadata(t *testing.T) {
	is := is.New(t)
	raw := &musicdb.RawLibrary{
		TzOffset: 0,
		Tracks: []*musicdb.Track{
			{
				PersistentID: 1,
				ID:           1,
				Rating:       100,
				SongTimeMs:   uint32p(1000),
				Bomas: []musicdb.Container{
					{Type: musicdb.BomaTrackTitle, Value: "Song"},
					{Type: musicdb.BomaXlmBlock1, Value: "<xml/>"},
				},
			},
		},
	}

	tracks, err := TracksFromMusicDB(raw)
	is.NoErr(err)
	is.Equal(len(tracks), 1)
	tr := tracks[0]
	is.Equal(tr.Metadata["track_title"], "Song")
	_, ok := tr.Metadata["xlm_block_1"]
	is.True(!ok) // xlm_block_1 is filtered by default
	is.Equal(tr.SongTimeMs, uint32(1000))
}

func TestTracksFromMusicDBKeepXlmBlocks(t *testing.T) {
	is := is.New(t)
	raw := &musicdb.RawLibrary{
		Tracks: []*musicdb.Track{
			{Bomas: []musicdb.Container{{Type: musicdb.BomaXlmBlock1, Value: "<xml/>"}}},
		},
	}
	tracks, err := TracksFromMusicDB(raw, WithXlmBlocks())
	is.NoErr(err)
	is.Equal(tracks[0].Metadata["xlm_block_1"], "<xml/>")
}

func TestTracksFromMusicDBMissingSection(t *testing.T) {
	is := is.New(t)
	raw := &musicdb.RawLibrary{}
	_, err := TracksFromMusicDB(raw)
	is.True(err != nil) // a library with no track section must be rejected
}

func TestPlaylistsFromMusicDBDropsUnnamed(t *testing.T) {
	is := is.New(t)
	raw := &musicdb.RawLibrary{
		Playlists: []*musicdb.Playlist{
			{PersistentID: 1, Bomas: []musicdb.Container{{Type: musicdb.BomaPlaylistName, Value: "Favorites"}}},
			{PersistentID: 2},
		},
	}
	playlists, err := PlaylistsFromMusicDB(raw)
	is.NoErr(err)
	is.Equal(len(playlists), 1)
	is.Equal(playlists[0].Name, "Favorites")
}

func TestLocationFromMusicDBStripsFilePrefix(t *testing.T) {
	is := is.New(t)
	raw := &musicdb.RawLibrary{
		LibraryMaster: []musicdb.Container{
			{Type: musicdb.BomaManagedMediaFolder, Value: "file://localhost/Users/me/Music"},
		},
	}
	loc, err := LocationFromMusicDB(raw, false)
	is.NoErr(err)
	is.Equal(loc, "/Users/me/Music")

	withPrefix, err := LocationFromMusicDB(raw, true)
	is.NoErr(err)
	is.Equal(withPrefix, "file://localhost/Users/me/Music")
}

func TestTimestampZeroMeansAbsent(t *testing.T) {
	is := is.New(t)
	_, ok := Timestamp(0, 0)
	is.True(!ok) // a raw value of 0 means no timestamp
	_, ok = Timestamp(1, 0)
	is.True(ok)
}

func TestTracksFromITLFlattensMetadata(t *testing.T) {
	is := is.New(t)
	raw := &itl.RawLibrary{
		TzOffset: 0,
		Tracks: []*itl.Track{
			{
				PersistentID: 1,
				ID:           1,
				Rating:       100,
				PlayCount:    3,
				Mhohs: []itl.Container{
					{Type: itl.MhohTrackTitle, Value: "Song"},
					{Type: itl.MhohArtist, Value: "Artist"},
				},
			},
		},
	}

	tracks, err := TracksFromITL(raw)
	is.NoErr(err)
	is.Equal(len(tracks), 1)
	tr := tracks[0]
	is.Equal(tr.Metadata["track_title"], "Song")
	is.Equal(tr.Metadata["artist"], "Artist")
	is.Equal(tr.PlayCount, uint32(3))
}

func TestTracksFromITLMissingSection(t *testing.T) {
	is := is.New(t)
	raw := &itl.RawLibrary{}
	_, err := TracksFromITL(raw)
	is.True(err != nil) // a library with no track section must be rejected
}

func TestPlaylistsFromITLWidensTrackIdentifiers(t *testing.T) {
	is := is.New(t)
	raw := &itl.RawLibrary{
		Playlists: []*itl.Playlist{
			{
				PersistentID:     1,
				Mhohs:            []itl.Container{{Type: itl.MhohPlaylistName, Value: "Favorites"}},
				TrackIdentifiers: []uint32{10, 20},
			},
			{PersistentID: 2},
		},
	}
	playlists, err := PlaylistsFromITL(raw)
	is.NoErr(err)
	is.Equal(len(playlists), 1) // the unnamed playlist is dropped
	pl := playlists[0]
	is.Equal(pl.Name, "Favorites")
	is.Equal(len(pl.PersistentTrackIDs), 2)
	is.Equal(pl.PersistentTrackIDs[0], uint64(10))
	is.Equal(pl.PersistentTrackIDs[1], uint64(20))
}

func TestLocationFromITLStripsFilePrefix(t *testing.T) {
	is := is.New(t)
	raw := &itl.RawLibrary{LibraryLocation: "file://localhost/Users/me/Music"}

	loc, err := LocationFromITL(raw, false)
	is.NoErr(err)
	is.Equal(loc, "/Users/me/Music")

	withPrefix, err := LocationFromITL(raw, true)
	is.NoErr(err)
	is.Equal(withPrefix, "file://localhost/Users/me/Music")
}

func TestLocationFromITLMissingSection(t *testing.T) {
	is := is.New(t)
	raw := &itl.RawLibrary{}
	_, err := LocationFromITL(raw, false)
	is.True(err != nil) // a library with no location set must be rejected
}
