package musicdb

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
	"github.com/mewkiz/itunesdb/internal/textdecode"
)

var wideCharTypes = map[BomaType]bool{
	BomaTrackTitle: true, BomaAlbum: true, BomaArtist: true, BomaGenre: true,
	BomaKind: true, BomaComment: true, BomaComposer: true, BomaGroupingClassical: true,
	BomaEpisodeComment: true, BomaEpisodeSynopsis: true, BomaSeriesTitle: true,
	BomaEpisodeNumber: true, BomaAlbumArtist: true, BomaSeriesUnknown: true,
	BomaSortOrderTrackName: true, BomaSortOrderAlbum: true, BomaSortOrderArtist: true,
	BomaSortOrderAlbumArtist: true, BomaSortOrderComposer: true, BomaLicensorCopyright: true,
	BomaUnknown002E: true, BomaSeriesSynopsis: true, BomaFlavorString: true,
	BomaEmailPurchaser: true, BomaNamePurchaser: true, BomaWorkName: true,
	BomaMovementName: true, BomaFilePath: true, BomaPlaylistName: true,
	BomaIamaAlbum: true, BomaIamaAlbumArtist1: true, BomaIamaAlbumArtist2: true,
	BomaSeriesTitleAlt: true, BomaIamaArtist1: true, BomaIamaArtist2: true,
	BomaHexString64x4b1: true, BomaManagedMediaFolder: true, BomaHexString64x4b2: true,
	BomaSongTitleMusicDB: true, BomaSongArtistMusicDB: true,
}

var utf8ShortTypes = map[BomaType]bool{
	BomaXlmBlock1: true, BomaXlmBlock2: true, BomaXlmArtwork: true,
}

var utf8LongTypes = map[BomaType]bool{
	BomaFileURL: true, BomaXlmBlock1Long: true, BomaXlmBlock3: true, BomaXlmBlock4: true,
}

// bomaTypeNames is the lowercase metadata-map key for each wide-char and
// UTF-8 tag, following the "lowercased enum member name" rule. Where the
// spec's ambient naming would otherwise collide, the first declared name
// wins.
var bomaTypeNames = map[BomaType]string{
	BomaTrackTitle: "track_title", BomaAlbum: "album", BomaArtist: "artist",
	BomaGenre: "genre", BomaKind: "kind", BomaComment: "comment",
	BomaComposer: "composer", BomaGroupingClassical: "grouping_classical",
	BomaEpisodeComment: "episode_comment", BomaEpisodeSynopsis: "episode_synopsis",
	BomaSeriesTitle: "series_title", BomaEpisodeNumber: "episode_number",
	BomaAlbumArtist: "album_artist", BomaSeriesUnknown: "series_unknown",
	BomaSortOrderTrackName: "sort_order_track_name", BomaSortOrderAlbum: "sort_order_album",
	BomaSortOrderArtist: "sort_order_artist", BomaSortOrderAlbumArtist: "sort_order_album_artist",
	BomaSortOrderComposer: "sort_order_composer", BomaLicensorCopyright: "licensor_copyright",
	BomaUnknown002E: "unknown_002e", BomaSeriesSynopsis: "series_synopsis",
	BomaFlavorString: "flavor_string", BomaEmailPurchaser: "email_purchaser",
	BomaNamePurchaser: "name_purchaser", BomaWorkName: "work_name",
	BomaMovementName: "movement_name", BomaFilePath: "file_path",
	BomaPlaylistName: "playlist_name", BomaIamaAlbum: "iama_album",
	BomaIamaAlbumArtist1: "iama_album_artist_1", BomaIamaAlbumArtist2: "iama_album_artist_2",
	BomaSeriesTitleAlt: "series_title_alt", BomaIamaArtist1: "iama_artist_1",
	BomaIamaArtist2: "iama_artist_2", BomaHexString64x4b1: "hex_string_64x4b_1",
	BomaManagedMediaFolder: "managed_media_folder", BomaHexString64x4b2: "hex_string_64x4b_2",
	BomaSongTitleMusicDB: "song_title_musicdb", BomaSongArtistMusicDB: "song_artist_musicdb",
	BomaXlmBlock1: "xlm_block_1", BomaXlmBlock2: "xlm_block_2", BomaXlmArtwork: "xlm_artwork",
	BomaFileURL: "file_url", BomaXlmBlock1Long: "xlm_block_1", BomaXlmBlock3: "xlm_block_3",
	BomaXlmBlock4: "xlm_block_4", BomaBook1: "book1", BomaVideo: "video",
}

// Name returns the lowercase metadata-map key for t, or "" if t has none.
func (t BomaType) Name() string {
	return bomaTypeNames[t]
}

// parseBoma decodes one "boma" container starting at the reader's
// current position. track and playlist, when non-nil, receive in-place
// mutations from subtypes that do not produce a standalone container
// (track numerics, ipfa playlist membership, smart-playlist markers).
// parseBoma always advances the reader to the end of the container, and
// returns a nil Container for subtypes that carry no standalone value.
func parseBoma(r *binreader.Reader, track *Track, playlist *Playlist) (*Container, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read boma magic")
	}
	if header != sigBoma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad container magic %q, want %q", header, sigBoma)
	}
	sectionLen, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read boma length")
	}
	subtypeVal, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read boma subtype")
	}
	subtype := BomaType(subtypeVal)

	var container *Container
	switch {
	case wideCharTypes[subtype]:
		strLen, err := r.ReadUint32(24, false)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read wide string length")
		}
		data, err := r.ReadBytes(36, int(strLen))
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read wide string")
		}
		container = &Container{Type: subtype, Value: textdecode.UTF16LE(data)}
	case utf8ShortTypes[subtype]:
		data, err := r.ReadBytes(20, int(sectionLen)-20)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read short utf8 string")
		}
		container = &Container{Type: subtype, Value: textdecode.UTF8(data)}
	case utf8LongTypes[subtype]:
		strLen, err := r.ReadUint32(24, false)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read long string length")
		}
		data, err := r.ReadBytes(36, int(strLen))
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read long utf8 string")
		}
		container = &Container{Type: subtype, Value: textdecode.UTF8(data)}
	case subtype == BomaBook1:
		book, err := r.ReadFixedString(20, 4)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read book signature")
		}
		if book != sigBook {
			return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad book signature %q", book)
		}
		container = nil
	case subtype == BomaIpfaPlaylist:
		if playlist == nil {
			return nil, errors.New("musicdb: ipfa playlist boma outside playlist context")
		}
		if err := parseBomaIpfaPlaylist(r, playlist); err != nil {
			return nil, err
		}
	case subtype == BomaSlstSmartPlaylist:
		if playlist != nil {
			playlist.IsSmart = true
		}
	case subtype == BomaVideo:
		vertical, err := r.ReadUint32(20, false)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read video vertical")
		}
		horizontal, err := r.ReadUint32(24, false)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read video horizontal")
		}
		fps, err := r.ReadUint32(68, false)
		if err != nil {
			return nil, errors.Wrap(err, "musicdb: read video fps")
		}
		container = &Container{
			Type:  subtype,
			Value: fmt.Sprintf("%dx%d (%d fps)", vertical, horizontal, fps),
		}
	case subtype == BomaTrackNumerics1 || subtype == BomaTrackNumerics2:
		if track == nil {
			return nil, errors.New("musicdb: track numerics boma outside track context")
		}
		if err := parseBomaTrackNumerics(r, subtype, track); err != nil {
			return nil, err
		}
	default:
		// Unknown subtype: silently skipped.
	}

	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past boma container")
	}
	return container, nil
}

func parseBomaIpfaPlaylist(r *binreader.Reader, playlist *Playlist) error {
	header, err := r.ReadFixedString(20, 4)
	if err != nil {
		return errors.Wrap(err, "musicdb: read ipfa magic")
	}
	if header != sigIpfa {
		return errors.Wrapf(errkind.BadMagic, "musicdb: bad ipfa magic %q, want %q", header, sigIpfa)
	}
	trackID, err := r.ReadUint64(40, false)
	if err != nil {
		return errors.Wrap(err, "musicdb: read ipfa track id")
	}
	playlist.PersistentTrackIDs = append(playlist.PersistentTrackIDs, trackID)
	return nil
}

func parseBomaTrackNumerics(r *binreader.Reader, subtype BomaType, track *Track) error {
	switch subtype {
	case BomaTrackNumerics1:
		if err := setIfUnsetU32(r, 108, &track.Bitrate); err != nil {
			return err
		}
		if err := setIfUnsetU32(r, 112, &track.DateAdded); err != nil {
			return err
		}
		if err := setIfUnsetU32(r, 148, &track.DateModified); err != nil {
			return err
		}
		if err := setIfUnsetU32(r, 152, &track.Normalization); err != nil {
			return err
		}
		if err := setIfUnsetU32(r, 176, &track.SongTimeMs); err != nil {
			return err
		}
		if err := setIfUnsetU32(r, 316, &track.FileSize); err != nil {
			return err
		}
	case BomaTrackNumerics2:
		if err := setIfUnsetU32(r, 32, &track.PlayCount); err != nil {
			return err
		}
		if track.PlayCount != nil && *track.PlayCount > 0 {
			if err := setIfUnsetU32(r, 28, &track.DateLastPlayed); err != nil {
				return err
			}
		}
	}
	return nil
}

// setIfUnsetU32 reads a uint32 at offset and stores it into *dst only if
// *dst is currently nil, implementing the format's first-writer-wins
// merge rule for fields that can be supplied by more than one container.
func setIfUnsetU32(r *binreader.Reader, offset int, dst **uint32) error {
	if *dst != nil {
		return nil
	}
	v, err := r.ReadUint32(offset, false)
	if err != nil {
		return errors.Wrapf(err, "musicdb: read field at offset %d", offset)
	}
	*dst = &v
	return nil
}
