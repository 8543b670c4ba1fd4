package itl

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseMlphPlaylistMaster decodes an "mlph" block into its child "miph"
// playlist records.
func parseMlphPlaylistMaster(r *binreader.Reader) ([]*Playlist, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mlph magic")
	}
	if header != sigMlph {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad mlph magic %q, want %q", header, sigMlph)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mlph header length")
	}
	numMiph, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mlph playlist count")
	}
	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past mlph header")
	}

	playlists := make([]*Playlist, 0, numMiph)
	for i := uint32(0); i < numMiph; i++ {
		playlist, err := parseMiph(r)
		if err != nil {
			return nil, err
		}
		// A playlist with no mtph track identifiers is dropped, matching
		// the reference parser's rule.
		if playlist != nil {
			playlists = append(playlists, playlist)
		}
	}
	return playlists, nil
}

// parseMiph decodes a single "miph" playlist record, its mhoh containers,
// and its trailing run of mtph track identifiers (which may have mhoh
// containers interspersed, a robustness case the reference parser
// tolerates). It returns nil if the playlist ends up with no track
// identifiers.
func parseMiph(r *binreader.Reader) (*Playlist, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph magic")
	}
	if header != sigMiph {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad miph magic %q, want %q", header, sigMiph)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph header length")
	}
	dataLen, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph data length")
	}
	numMhoh, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph mhoh count")
	}
	numMtph, err := r.ReadUint32(16, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph mtph count")
	}
	expectedEndPos := r.Pos() + int(dataLen)

	persistentID, err := r.ReadUint64(440, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph persistent id")
	}
	distinguishedKind, err := r.ReadUint16(570, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph distinguished kind")
	}
	playlistID, err := r.ReadUint32(3392, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read miph playlist id")
	}

	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past miph header")
	}

	playlist := &Playlist{
		PersistentID:      persistentID,
		ID:                playlistID,
		DistinguishedKind: distinguishedKind,
	}

	for i := uint32(0); i < numMhoh; i++ {
		container, err := parseMhoh(r)
		if err != nil {
			return nil, err
		}
		if container != nil {
			playlist.Mhohs = append(playlist.Mhohs, *container)
		}
	}

	for uint32(len(playlist.TrackIdentifiers)) < numMtph {
		tag, err := r.ReadFixedString(0, 4)
		if err != nil {
			return nil, errors.Wrap(err, "itl: peek mtph-scan tag")
		}
		switch tag {
		case sigMtph:
			id, err := parseMtph(r)
			if err != nil {
				return nil, err
			}
			playlist.TrackIdentifiers = append(playlist.TrackIdentifiers, id)
		case sigMhoh:
			// Interspersed mhoh containers are tolerated but do not count
			// toward numMtph.
			sectionLen, err := r.ReadUint32(8, false)
			if err != nil {
				return nil, errors.Wrap(err, "itl: read interspersed mhoh length")
			}
			if err := r.Advance(int(sectionLen)); err != nil {
				return nil, errors.Wrap(err, "itl: skip interspersed mhoh")
			}
		default:
			declaredLen, err := r.ReadUint32(4, false)
			if err != nil {
				return nil, errors.Wrap(err, "itl: read unknown tag length")
			}
			if err := r.Advance(int(declaredLen)); err != nil {
				return nil, errors.Wrap(err, "itl: skip unknown tag")
			}
		}
	}

	if r.Pos() != expectedEndPos {
		return nil, errors.Wrapf(errkind.LengthMismatch, "itl: miph playlist ended at %d, expected %d", r.Pos(), expectedEndPos)
	}
	if len(playlist.TrackIdentifiers) == 0 {
		return nil, nil
	}
	return playlist, nil
}

// parseMtph decodes a single "mtph" track-identifier entry.
func parseMtph(r *binreader.Reader) (uint32, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return 0, errors.Wrap(err, "itl: read mtph magic")
	}
	if header != sigMtph {
		return 0, errors.Wrapf(errkind.BadMagic, "itl: bad mtph magic %q, want %q", header, sigMtph)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return 0, errors.Wrap(err, "itl: read mtph header length")
	}
	identifier, err := r.ReadUint32(24, false)
	if err != nil {
		return 0, errors.Wrap(err, "itl: read mtph identifier")
	}
	if err := r.Advance(int(headerLen)); err != nil {
		return 0, errors.Wrap(err, "itl: advance past mtph header")
	}
	return identifier, nil
}
