package itl

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
	"github.com/mewkiz/itunesdb/internal/textdecode"
)

var flexTypes = map[MhohType]bool{
	MhohTrackTitle: true, MhohAlbumTitle: true, MhohArtist: true, MhohGenre: true,
	MhohKind: true, MhohComments: true, MhohCategory: true, MhohLocalPath: true,
	MhohComposer: true, MhohNativeFilepath: true, MhohGrouping: true,
	MhohShortDescription: true, MhohFullDescription: true, MhohTvShowTitle: true,
	MhohEpisodeID: true, MhohAlbumArtist: true, MhohTvRating: true, MhohXMLBlock: true,
	MhohSortTrackName: true, MhohSortAlbum: true, MhohSortArtist: true,
	MhohSortAlbumArtist: true, MhohSortComposer: true, MhohPodcastRSSURL: true,
	MhohEmiUnknown: true, MhohCopyright: true, MhohAlternateDescription: true,
	MhohUnknown34: true, MhohPodcastEpisodeURL: true, MhohPodcastFeedURL: true,
	MhohPurchaserEmail: true, MhohPurchaserName: true, MhohWorkName: true,
	MhohMovementName: true, MhohPlaylistName: true, MhohPodcastTitle: true,
	MhohAlbumMiah: true, MhohAlbumArtistMiah: true, MhohAlbumArtistMiah2: true,
	MhohSeriesTitleMiah: true, MhohFeedURLMiah: true, MhohArtistMiah: true,
	MhohSortArtistMiah: true, MhohUUIDUnknownF8: true, MhohUUIDUnknownF9: true,
	MhohLibraryOwner: true, MhohLibraryName: true, MhohTrackTitleExt: true,
	MhohArtistAlbumCombined: true,
}

var narrowTypes = map[MhohType]bool{
	MhohPodcastEpisodeURLNarrow: true, MhohArtXMLBlock: true, MhohDownloadXMLBlock: true,
	MhohDisplayArtXMLBlock: true, MhohStoreArtURLXMLBlock: true, MhohLongXMLBlock: true,
	MhohSmartPlaylistCriteriaXMLBlock: true, MhohTvDisplayXMLBlock: true,
}

var mhohTypeNames = map[MhohType]string{
	MhohTrackTitle: "track_title", MhohAlbumTitle: "album_title", MhohArtist: "artist",
	MhohGenre: "genre", MhohKind: "kind", MhohComments: "comments", MhohCategory: "category",
	MhohLocalPath: "local_path", MhohComposer: "composer", MhohNativeFilepath: "native_filepath",
	MhohGrouping: "grouping", MhohShortDescription: "short_description",
	MhohFullDescription: "full_description", MhohTvShowTitle: "tv_show_title",
	MhohEpisodeID: "episode_id", MhohAlbumArtist: "album_artist", MhohTvRating: "tv_rating",
	MhohXMLBlock: "xml_block", MhohSortTrackName: "sort_track_name", MhohSortAlbum: "sort_album",
	MhohSortArtist: "sort_artist", MhohSortAlbumArtist: "sort_album_artist",
	MhohSortComposer: "sort_composer", MhohPodcastRSSURL: "podcast_rss_url",
	MhohEmiUnknown: "emi_unknown", MhohCopyright: "copyright",
	MhohAlternateDescription: "alternate_description", MhohUnknown34: "unknown_34",
	MhohPodcastEpisodeURL: "podcast_episode_url", MhohPodcastFeedURL: "podcast_feed_url",
	MhohPurchaserEmail: "purchaser_email", MhohPurchaserName: "purchaser_name",
	MhohWorkName: "work_name", MhohMovementName: "movement_name",
	MhohPlaylistName: "playlist_name", MhohPodcastTitle: "podcast_title",
	MhohAlbumMiah: "album_miah", MhohAlbumArtistMiah: "album_artist_miah",
	MhohAlbumArtistMiah2: "album_artist_miah_2", MhohSeriesTitleMiah: "series_title_miah",
	MhohFeedURLMiah: "feed_url_miah", MhohArtistMiah: "artist_miah",
	MhohSortArtistMiah: "sort_artist_miah", MhohUUIDUnknownF8: "uuid_unknown_f8",
	MhohUUIDUnknownF9: "uuid_unknown_f9", MhohLibraryOwner: "library_owner",
	MhohLibraryName: "library_name", MhohTrackTitleExt: "track_title_ext",
	MhohArtistAlbumCombined: "artist_album_combined",
	MhohPodcastEpisodeURLNarrow: "podcast_episode_url", MhohArtXMLBlock: "art_xml_block",
	MhohDownloadXMLBlock: "download_xml_block", MhohDisplayArtXMLBlock: "display_art_xml_block",
	MhohStoreArtURLXMLBlock: "store_art_url_xml_block", MhohLongXMLBlock: "long_xml_block",
	MhohSmartPlaylistCriteriaXMLBlock: "smart_playlist_criteria_xml_block",
	MhohTvDisplayXMLBlock: "tv_display_xml_block", MhohResolution: "resolution",
	MhohBook: "book",
}

// Name returns the lowercase metadata-map key for t, or "" if t has none.
func (t MhohType) Name() string {
	return mhohTypeNames[t]
}

// parseMhoh decodes one "mhoh" container starting at the reader's
// current position, always advancing past it. As with musicdb's boma,
// an unrecognized mhoh subtype is not an error: it is silently skipped,
// matching the reference parser's per-container (rather than
// per-block) leniency.
func parseMhoh(r *binreader.Reader) (*Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhoh magic")
	}
	if header != sigMhoh {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad container magic %q, want %q", header, sigMhoh)
	}
	sectionLen, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhoh length")
	}
	subtypeVal, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mhoh subtype")
	}
	subtype := MhohType(subtypeVal)

	var container *Container
	switch {
	case flexTypes[subtype]:
		stringType, err := r.ReadUint32(24, false)
		if err != nil {
			return nil, errors.Wrap(err, "itl: read mhoh string type")
		}
		strLen, err := r.ReadUint32(28, false)
		if err != nil {
			return nil, errors.Wrap(err, "itl: read mhoh string length")
		}
		data, err := r.ReadBytes(40, int(strLen))
		if err != nil {
			return nil, errors.Wrap(err, "itl: read mhoh string")
		}
		var value string
		if StringType(stringType) == StringTypeWideUtf16 {
			value = textdecode.UTF16LE(data)
		} else {
			value = textdecode.UTF8(data)
		}
		container = &Container{Type: subtype, Value: value}
	case narrowTypes[subtype]:
		data, err := r.ReadBytes(24, int(sectionLen)-24)
		if err != nil {
			return nil, errors.Wrap(err, "itl: read mhoh narrow string")
		}
		container = &Container{Type: subtype, Value: textdecode.UTF8(data)}
	case subtype == MhohBook:
		// Unparsed opaque blob; no standalone value.
	case subtype == MhohResolution:
		vertical, err := r.ReadUint32(24, false)
		if err != nil {
			return nil, errors.Wrap(err, "itl: read resolution vertical")
		}
		horizontal, err := r.ReadUint32(28, false)
		if err != nil {
			return nil, errors.Wrap(err, "itl: read resolution horizontal")
		}
		container = &Container{Type: subtype, Value: fmt.Sprintf("%dx%d", vertical, horizontal)}
	default:
		// Unknown subtype: silently skipped.
	}

	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past mhoh container")
	}
	return container, nil
}
