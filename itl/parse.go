package itl

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
	"github.com/mewkiz/itunesdb/internal/envelope"
)

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	includeUnknown bool
}

// WithIncludeUnknown causes Parse to retain top-level blocks whose type
// is one of the reference parser's unknown-but-tracked types, instead of
// dropping them.
func WithIncludeUnknown() ParseOption {
	return func(c *parseConfig) { c.includeUnknown = true }
}

// Parse decodes a .itl file body (already read into memory) using key,
// the library's 16-byte decryption key.
func Parse(key, data []byte, opts ...ParseOption) (*RawLibrary, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := binreader.New(data)

	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read outer header magic")
	}
	if header != sigHdfm {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad outer magic %q, want %q", header, sigHdfm)
	}
	headerLen, err := r.ReadUint32(4, true)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read header length")
	}
	fileLen, err := r.ReadUint32(8, true)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read file length")
	}
	if int(fileLen) != len(data) {
		return nil, errors.Wrapf(errkind.LengthMismatch, "itl: file length mismatch: header says %d, actual %d", fileLen, len(data))
	}
	versionStrLen, err := r.ReadUint8(16)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read version string length")
	}
	version, err := r.ReadFixedString(17, int(versionStrLen))
	if err != nil {
		return nil, errors.Wrap(err, "itl: read version string")
	}
	numMsdh, err := r.ReadUint32(48, true)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read msdh count")
	}
	maxCryptSize, err := r.ReadUint32(92, true)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read max crypt size")
	}
	tzOffset, err := r.ReadInt32(100, true)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read tz offset")
	}
	date, err := r.ReadUint32(112, true)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read date")
	}

	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past header")
	}
	body := r.Bytes()[r.Pos():]
	cryptSize := envelope.CryptSize(len(body), int(maxCryptSize))

	decoded, err := envelope.Decode(key, body, cryptSize)
	if err != nil {
		return nil, errors.Wrap(err, "itl: decode body")
	}

	lib := &RawLibrary{
		Version:  version,
		Date:     date,
		TzOffset: tzOffset,
	}

	br := binreader.New(decoded)
	for i := uint32(0); i < numMsdh; i++ {
		if err := parseMsdh(br, lib, cfg); err != nil {
			return nil, err
		}
	}
	if br.Pos() != br.Len() {
		lib.Warnings = append(lib.Warnings, fmt.Sprintf(
			"itl: cursor at %d after %d blocks, expected end of buffer at %d",
			br.Pos(), numMsdh, br.Len()))
	}
	return lib, nil
}

// parseMsdh decodes one top-level "msdh" block and dispatches on its
// declared BlockType, merging the result into lib.
func parseMsdh(r *binreader.Reader, lib *RawLibrary, cfg *parseConfig) error {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return errors.Wrap(err, "itl: read msdh magic")
	}
	if header != sigMsdh {
		return errors.Wrapf(errkind.BadMagic, "itl: bad block magic %q, want %q", header, sigMsdh)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return errors.Wrap(err, "itl: read msdh header length")
	}
	dataLen, err := r.ReadUint32(8, false)
	if err != nil {
		return errors.Wrap(err, "itl: read msdh data length")
	}
	blockType, err := r.ReadUint32(12, false)
	if err != nil {
		return errors.Wrap(err, "itl: read msdh block type")
	}

	bt := BlockType(blockType)
	if bt.IsUnknown() {
		if cfg.includeUnknown {
			raw, err := r.ReadBytes(int(headerLen), int(dataLen)-int(headerLen))
			if err != nil {
				return errors.Wrap(err, "itl: read unknown msdh block")
			}
			lib.UnknownBlocks = append(lib.UnknownBlocks, UnknownBlock{Type: bt, Data: raw})
		}
		if err := r.Advance(int(dataLen)); err != nil {
			return errors.Wrap(err, "itl: skip unknown msdh block")
		}
		return nil
	}

	if err := r.Advance(int(headerLen)); err != nil {
		return errors.Wrap(err, "itl: advance past msdh header")
	}

	switch bt {
	case BlockTypeArtist:
		items, err := parseMlihArtist(r)
		if err != nil {
			return err
		}
		lib.Artist = items
	case BlockTypeTrackMaster, BlockTypeTrack:
		tracks, err := parseMlthTrackMaster(r)
		if err != nil {
			return err
		}
		lib.Tracks = tracks
	case BlockTypeOuterEnvelope:
		envStr, err := parseMfdhOuterEnvelope(r)
		if err != nil {
			return err
		}
		lib.OuterEnvelope = envStr
	case BlockTypeAlbumCollection:
		items, err := parseMlahAlbumCollection(r)
		if err != nil {
			return err
		}
		lib.AlbumCollection = items
	case BlockTypeLibraryInfo:
		info, err := parseMhghLibraryInfo(r)
		if err != nil {
			return err
		}
		lib.LibraryInfo = info
	case BlockTypePlaylistMaster, BlockTypePlaylist:
		playlists, err := parseMlphPlaylistMaster(r)
		if err != nil {
			return err
		}
		lib.Playlists = playlists
	case BlockTypeLibraryLocation:
		// Rewind past the header we just advanced over: this block is
		// re-read in full by parseLibraryLocation, which expects to see
		// its own msdh header again.
		if err := r.Advance(-int(headerLen)); err != nil {
			return errors.Wrap(err, "itl: rewind for library location")
		}
		loc, err := parseLibraryLocation(r)
		if err != nil {
			return err
		}
		lib.LibraryLocation = loc
	default:
		return errors.Wrapf(errkind.UnknownSectionType, "itl: unknown msdh block type: %d", blockType)
	}
	return nil
}
