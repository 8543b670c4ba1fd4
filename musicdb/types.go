// Package musicdb parses the modern Apple Music Library.musicdb file
// format: an AES-128-ECB-encrypted, zlib-compressed tree of fixed-layout
// sections rooted at the "hsma" tag.
package musicdb

// Section signatures, as they appear on disk (little-endian 4-byte
// magics).
const (
	sigHsma = "hsma"
	sigHfma = "hfma"
	sigPlma = "plma"
	sigLama = "lama"
	sigIama = "iama"
	sigLAma = "lAma"
	sigIAma = "iAma"
	sigLtma = "ltma"
	sigItma = "itma"
	sigLPma = "lPma"
	sigLpma = "lpma"
	sigIpfa = "ipfa"
	sigBoma = "boma"
	sigBook = "book"
)

// SectionType identifies the payload of an hsma section.
type SectionType uint32

// Known hsma section types. Any value outside this set is skipped by
// advancing past its declared length (see Parse).
const (
	SectionTypeTrackMaster   SectionType = 1
	SectionTypePlaylistMaster SectionType = 2
	SectionTypeInnerMaster   SectionType = 3
	SectionTypeAlbumData     SectionType = 4
	SectionTypeArtistData    SectionType = 5
	SectionTypeLibraryMaster SectionType = 6
	SectionTypeUnknown17     SectionType = 17
)

// BomaType identifies the payload of a boma metadata container. The
// numeric space is shared across several disjoint tag families; which
// family a given value belongs to determines how its value is decoded.
type BomaType uint32

// Wide-char (UTF-16LE) string tags.
const (
	BomaTrackTitle           BomaType = 0x2
	BomaAlbum                BomaType = 0x3
	BomaArtist               BomaType = 0x4
	BomaGenre                BomaType = 0x5
	BomaKind                 BomaType = 0x6
	BomaComment              BomaType = 0x8
	BomaComposer             BomaType = 0xC
	BomaGroupingClassical    BomaType = 0xE
	BomaEpisodeComment       BomaType = 0x12
	BomaEpisodeSynopsis      BomaType = 0x16
	BomaSeriesTitle          BomaType = 0x18
	BomaEpisodeNumber        BomaType = 0x19
	BomaAlbumArtist          BomaType = 0x1B
	BomaSeriesUnknown        BomaType = 0x1C
	BomaSortOrderTrackName   BomaType = 0x1E
	BomaSortOrderAlbum       BomaType = 0x1F
	BomaSortOrderArtist      BomaType = 0x20
	BomaSortOrderAlbumArtist BomaType = 0x21
	BomaSortOrderComposer    BomaType = 0x22
	BomaLicensorCopyright    BomaType = 0x2B
	BomaUnknown002E          BomaType = 0x2E
	BomaSeriesSynopsis       BomaType = 0x33
	BomaFlavorString         BomaType = 0x34
	BomaEmailPurchaser       BomaType = 0x3B
	BomaNamePurchaser        BomaType = 0x3C
	BomaWorkName             BomaType = 0x3F
	BomaMovementName         BomaType = 0x40
	BomaFilePath             BomaType = 0x43
	BomaPlaylistName         BomaType = 0xC8
	BomaIamaAlbum            BomaType = 0x12C
	BomaIamaAlbumArtist1     BomaType = 0x12D
	BomaIamaAlbumArtist2     BomaType = 0x12E
	BomaSeriesTitleAlt       BomaType = 0x12F
	BomaIamaArtist1          BomaType = 0x190
	BomaIamaArtist2          BomaType = 0x191
	BomaHexString64x4b1      BomaType = 0x1F4
	BomaManagedMediaFolder   BomaType = 0x1F8
	BomaHexString64x4b2      BomaType = 0x1FE
	BomaSongTitleMusicDB     BomaType = 0x2BE
	BomaSongArtistMusicDB    BomaType = 0x2BF
)

// UTF-8 short-string tags: the value runs to the end of the container
// (no explicit length field).
const (
	BomaXlmBlock1 BomaType = 0x36
	BomaXlmBlock2 BomaType = 0x38
	BomaXlmArtwork BomaType = 0x192
)

// UTF-8 long-string tags: length-prefixed, like the wide-char family.
const (
	BomaFileURL   BomaType = 0xB
	BomaXlmBlock1Long BomaType = 0x1D
	BomaXlmBlock3 BomaType = 0x2BC
	BomaXlmBlock4 BomaType = 0x3CC
)

// Opaque "book" blob tag.
const BomaBook1 BomaType = 0x42

// Track numerics tags: mutate the enclosing Track directly rather
// than producing a standalone container value.
const (
	BomaTrackNumerics1 BomaType = 0x1
	BomaTrackNumerics2 BomaType = 0x17
)

// Other fixed-layout tags.
const BomaVideo BomaType = 0x24

// Playlist-mutating tags.
const (
	BomaIpfaPlaylist      BomaType = 0xCE
	BomaSlstSmartPlaylist BomaType = 0xC9
)

// Container is a single decoded boma value attached to a track, playlist,
// or library-master section. Tags that carry no standalone value (book
// blobs, and tags that mutate their parent in place) produce no
// Container at all.
type Container struct {
	Type  BomaType
	Value string
}

// Track is a single ltma/itma track record merged with the fields
// supplied by its Track Numerics 1 and Track Numerics 2 boma children.
type Track struct {
	PersistentID uint64
	ID           uint32
	Starred      bool
	Rating       uint8
	Unchecked    uint16

	// Populated from Track Numerics 1 (0x1), first-writer-wins.
	Bitrate        *uint32
	DateAdded      *uint32
	DateModified   *uint32
	Normalization  *uint32
	SongTimeMs     *uint32
	FileSize       *uint32

	// Populated from Track Numerics 2 (0x17), first-writer-wins.
	DateLastPlayed *uint32
	PlayCount      *uint32

	Bomas []Container
}

// Stars reports Rating on the conventional 0-5 star scale.
func (t *Track) Stars() int {
	return int(float64(t.Rating) / 100 * 5)
}

// Playlist is a single lPma/lpma playlist record.
type Playlist struct {
	PersistentID        uint64
	DateCreated          uint32
	DateModified         uint32
	NumTracks            uint32
	IsSmart              bool
	IsFolder             bool
	PersistentTrackIDs   []uint64
	Bomas                []Container
}

// RawLibrary is the fully decoded musicdb section tree, before the
// library package's view-layer rules (date normalization, metadata
// flattening, playlist filtering) are applied.
type RawLibrary struct {
	Version  string
	Date     uint32
	TzOffset int32

	Tracks    []*Track
	Playlists []*Playlist
	// AlbumData and ArtistData hold the section-4 / section-5 boma
	// collections: one inner slice per iama/iAma item, holding that
	// item's own containers.
	AlbumData  [][]Container
	ArtistData [][]Container
	// LibraryMaster holds the plma section's boma list, which is where
	// the managed media folder path lives.
	LibraryMaster []Container
}
