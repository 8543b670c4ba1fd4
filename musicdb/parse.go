package musicdb

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
	"github.com/mewkiz/itunesdb/internal/envelope"
)

// Parse decodes a Library.musicdb file body (already read into memory)
// using key, the library's 16-byte decryption key.
func Parse(key, data []byte) (*RawLibrary, error) {
	r := binreader.New(data)

	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read outer header magic")
	}
	if header != sigHfma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad outer magic %q, want %q", header, sigHfma)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read header length")
	}
	fileLen, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read file length")
	}
	if int(fileLen) != len(data) {
		return nil, errors.Wrapf(errkind.LengthMismatch, "musicdb: file length mismatch: header says %d, actual %d", fileLen, len(data))
	}
	version, err := r.ReadFixedString(16, 32)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read version")
	}
	maxCryptSize, err := r.ReadUint32(84, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read max crypt size")
	}
	tzOffset, err := r.ReadInt32(88, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read tz offset")
	}
	date, err := r.ReadUint32(100, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read date")
	}

	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past header")
	}
	body := r.Bytes()[r.Pos():]
	cryptSize := envelope.CryptSize(len(body), int(maxCryptSize))

	decoded, err := envelope.Decode(key, body, cryptSize)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: decode body")
	}

	lib := &RawLibrary{
		Version:  version,
		Date:     date,
		TzOffset: tzOffset,
	}

	sr := binreader.New(decoded)
	for sr.Pos() < sr.Len() {
		if err := parseHsma(sr, lib); err != nil {
			return nil, err
		}
	}
	return lib, nil
}

// parseHsma decodes one top-level "hsma" section and dispatches on its
// declared SectionType, merging the result into lib.
func parseHsma(r *binreader.Reader, lib *RawLibrary) error {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return errors.Wrap(err, "musicdb: read hsma magic")
	}
	if header != sigHsma {
		return errors.Wrapf(errkind.BadMagic, "musicdb: bad section magic %q, want %q", header, sigHsma)
	}
	nextSectionOffset, err := r.ReadUint32(4, false)
	if err != nil {
		return errors.Wrap(err, "musicdb: read hsma next-section offset")
	}
	sectionLen, err := r.ReadUint32(8, false)
	if err != nil {
		return errors.Wrap(err, "musicdb: read hsma section length")
	}
	sectionType, err := r.ReadUint32(12, false)
	if err != nil {
		return errors.Wrap(err, "musicdb: read hsma section type")
	}
	expectedEndPos := r.Pos() + int(sectionLen)

	if err := r.Advance(int(nextSectionOffset)); err != nil {
		return errors.Wrap(err, "musicdb: advance past hsma header")
	}

	switch SectionType(sectionType) {
	case SectionTypeTrackMaster:
		tracks, err := parseLtmaTrackMaster(r)
		if err != nil {
			return err
		}
		lib.Tracks = tracks
	case SectionTypePlaylistMaster:
		playlists, err := parseLpmaPlaylists(r)
		if err != nil {
			return err
		}
		lib.Playlists = playlists
	case SectionTypeInnerMaster:
		// The outer "hfma" envelope is duplicated inline here; re-validate
		// and skip past it rather than re-parsing it.
		inner, err := r.ReadFixedString(0, 4)
		if err != nil {
			return errors.Wrap(err, "musicdb: read inner hfma magic")
		}
		if inner != sigHfma {
			return errors.Wrapf(errkind.BadMagic, "musicdb: bad inner magic %q, want %q", inner, sigHfma)
		}
		if err := r.Advance(int(sectionLen) - int(nextSectionOffset)); err != nil {
			return errors.Wrap(err, "musicdb: skip inner master")
		}
	case SectionTypeAlbumData:
		items, err := parseLamaAlbumArtist(sigLama, sigIama, r)
		if err != nil {
			return err
		}
		lib.AlbumData = items
	case SectionTypeArtistData:
		items, err := parseLamaAlbumArtist(sigLAma, sigIAma, r)
		if err != nil {
			return err
		}
		lib.ArtistData = items
	case SectionTypeLibraryMaster:
		containers, err := parsePlmaLibrary(r)
		if err != nil {
			return err
		}
		lib.LibraryMaster = containers
	default:
		// Unknown section types, including the documented-but-unused 17,
		// are skipped by advancing to the section's declared end.
		if err := r.Advance(int(sectionLen) - int(nextSectionOffset)); err != nil {
			return errors.Wrap(err, "musicdb: skip unknown section")
		}
	}

	if r.Pos() != expectedEndPos {
		return errors.Wrapf(errkind.LengthMismatch, "musicdb: section ended at %d, expected %d", r.Pos(), expectedEndPos)
	}
	return nil
}
