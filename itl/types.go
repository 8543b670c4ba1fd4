// Package itl parses the legacy iTunes .itl library file format: an
// AES-128-ECB-encrypted, zlib-compressed tree of fixed-layout blocks
// rooted at the "msdh" tag, itself wrapped in a big-endian-ish "hdfm"
// outer envelope.
package itl

// Block signatures, as they appear on disk (4-byte magics).
const (
	sigHdfm = "hdfm"
	sigMsdh = "msdh"
	sigMlth = "mlth"
	sigMith = "mith"
	sigMlph = "mlph"
	sigMiph = "miph"
	sigMtph = "mtph"
	sigMlah = "mlah"
	sigMiah = "miah"
	sigMlih = "mlih"
	sigMiih = "miih"
	sigMhgh = "mhgh"
	sigMfdh = "mfdh"
	sigMhoh = "mhoh"
	sigBook = "book"
)

// BlockType identifies the payload of an msdh block.
type BlockType uint32

// Known msdh block types.
const (
	BlockTypeTrackMaster    BlockType = 1
	BlockTypePlaylistMaster BlockType = 2
	BlockTypeBinaryUnk      BlockType = 3
	BlockTypeLibraryLocation BlockType = 4
	BlockTypeAlbumCollection BlockType = 9
	BlockTypeArtist          BlockType = 11
	BlockTypeLibraryInfo     BlockType = 12
	BlockTypeTrack           BlockType = 13
	BlockTypePlaylist        BlockType = 14
	BlockTypeUnk15           BlockType = 15
	BlockTypeOuterEnvelope   BlockType = 16
	BlockTypeXlm             BlockType = 19
	BlockTypeUnk20           BlockType = 20
	BlockTypeUnk21           BlockType = 21
	BlockTypeUnk23           BlockType = 23
)

// IsUnknown reports whether t is one of the block types the reference
// parser tracks but never interprets, surfaced only when a caller opts
// in via WithIncludeUnknown.
func (t BlockType) IsUnknown() bool {
	switch t {
	case BlockTypeBinaryUnk, BlockTypeUnk15, BlockTypeUnk20, BlockTypeUnk21, BlockTypeUnk23:
		return true
	default:
		return false
	}
}

// MhohType identifies the payload of an mhoh metadata container.
type MhohType uint32

// Self-describing string tags: decoded according to an explicit
// StringType field alongside the tag.
const (
	MhohTrackTitle         MhohType = 0x02
	MhohAlbumTitle         MhohType = 0x03
	MhohArtist             MhohType = 0x04
	MhohGenre              MhohType = 0x05
	MhohKind               MhohType = 0x06 // alias: file_type
	MhohComments           MhohType = 0x08
	MhohCategory           MhohType = 0x09
	MhohLocalPath          MhohType = 0x0B
	MhohComposer           MhohType = 0x0C
	MhohNativeFilepath     MhohType = 0x0D
	MhohGrouping           MhohType = 0x0E
	MhohShortDescription   MhohType = 0x12
	MhohFullDescription    MhohType = 0x16
	MhohTvShowTitle        MhohType = 0x18
	MhohEpisodeID          MhohType = 0x19
	MhohAlbumArtist        MhohType = 0x1B
	MhohTvRating           MhohType = 0x1C
	MhohXMLBlock           MhohType = 0x1D
	MhohSortTrackName      MhohType = 0x1E
	MhohSortAlbum          MhohType = 0x1F
	MhohSortArtist         MhohType = 0x20
	MhohSortAlbumArtist    MhohType = 0x21
	MhohSortComposer       MhohType = 0x22 // alias: sort_tv_show_title
	MhohPodcastRSSURL      MhohType = 0x25
	MhohEmiUnknown         MhohType = 0x2B
	MhohCopyright          MhohType = 0x2E
	MhohAlternateDescription MhohType = 0x33
	MhohUnknown34          MhohType = 0x34
	MhohPodcastEpisodeURL  MhohType = 0x39
	MhohPodcastFeedURL     MhohType = 0x3A
	MhohPurchaserEmail     MhohType = 0x3B
	MhohPurchaserName      MhohType = 0x3C
	MhohWorkName           MhohType = 0x3F
	MhohMovementName       MhohType = 0x40
	MhohPlaylistName       MhohType = 0x64
	MhohPodcastTitle       MhohType = 0xC8
	MhohAlbumMiah          MhohType = 0x12C
	MhohAlbumArtistMiah    MhohType = 0x12D
	MhohAlbumArtistMiah2   MhohType = 0x12E
	MhohSeriesTitleMiah    MhohType = 0x130
	MhohFeedURLMiah        MhohType = 0x131
	MhohArtistMiah         MhohType = 0x190
	MhohSortArtistMiah     MhohType = 0x191
	MhohUUIDUnknownF8      MhohType = 0x1F8
	MhohUUIDUnknownF9      MhohType = 0x1F9
	MhohLibraryOwner       MhohType = 0x1FA
	MhohLibraryName        MhohType = 0x1FC
	MhohTrackTitleExt      MhohType = 0x2BE
	MhohArtistAlbumCombined MhohType = 0x2BF
)

// Narrow UTF-8 string tags: value runs to the end of the container.
const (
	MhohPodcastEpisodeURLNarrow MhohType = 0x13
	MhohArtXMLBlock             MhohType = 0x36
	MhohDownloadXMLBlock        MhohType = 0x38
	MhohDisplayArtXMLBlock      MhohType = 0x6D
	MhohStoreArtURLXMLBlock     MhohType = 0x192
	MhohLongXMLBlock            MhohType = 0x202
	MhohSmartPlaylistCriteriaXMLBlock MhohType = 0x2BC
	MhohTvDisplayXMLBlock       MhohType = 0x320
)

// Other fixed-layout tags.
const (
	MhohResolution MhohType = 0x24
	MhohBook       MhohType = 0x42
)

// StringType tags the encoding of a self-describing (flex) mhoh
// container's value.
type StringType uint32

const (
	StringTypeURIUtf8     StringType = 0
	StringTypeWideUtf16   StringType = 1
	StringTypeEscapedURI  StringType = 2
	StringTypeNarrowUtf8  StringType = 3
)

// ListSize mirrors the itl library-settings list-size preference.
type ListSize uint8

const (
	ListSizeSmall  ListSize = 1
	ListSizeMedium ListSize = 2
	ListSizeLarge  ListSize = 3
)

// UnknownBlock is a top-level msdh block whose type the reference parser
// tracks but never interprets. It is only collected when Parse is called
// with WithIncludeUnknown.
type UnknownBlock struct {
	Type BlockType
	Data []byte
}

// Container is a single decoded mhoh value.
type Container struct {
	Type  MhohType
	Value string
}

// Track is a single mlth/mith track record.
type Track struct {
	PersistentID   uint64
	ID             uint32
	DateAdded      uint32
	DateModified   uint32
	DateLastPlayed uint32
	PlayCount      uint32
	Rating         uint8
	Unchecked      uint8
	Mhohs          []Container
}

// Playlist is a single mlph/miph playlist record.
type Playlist struct {
	PersistentID      uint64
	ID                uint32
	DistinguishedKind uint16
	Mhohs             []Container
	// TrackIdentifiers holds the child mtph track identifiers.
	TrackIdentifiers []uint32
}

// LibrarySettings is the mhgh library-info block.
type LibrarySettings struct {
	ListSize ListSize
	Mhohs    []Container
}

// RawLibrary is the fully decoded itl block tree, before the library
// package's view-layer rules are applied.
type RawLibrary struct {
	Version  string
	Date     uint32
	TzOffset int32

	Tracks    []*Track
	Playlists []*Playlist
	// AlbumCollection and Artist hold the mlah/mlih block collections:
	// one inner slice per miah/miih item, holding that item's own
	// containers.
	AlbumCollection [][]Container
	Artist          [][]Container
	LibraryInfo     *LibrarySettings
	LibraryLocation string
	OuterEnvelope   string
	UnknownBlocks   []UnknownBlock

	// Warnings accumulates non-fatal anomalies, such as the parser not
	// reaching the exact end of the decompressed buffer after consuming
	// the declared number of top-level blocks.
	Warnings []string
}
