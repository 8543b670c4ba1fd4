package musicdb

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseLtmaTrackMaster decodes an "ltma" section into its child "itma"
// track records.
func parseLtmaTrackMaster(r *binreader.Reader) ([]*Track, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read ltma magic")
	}
	if header != sigLtma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad ltma magic %q, want %q", header, sigLtma)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read ltma length")
	}
	numItma, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read ltma count")
	}
	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past ltma header")
	}

	tracks := make([]*Track, 0, numItma)
	for i := uint32(0); i < numItma; i++ {
		track, err := parseItmaTrack(r)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// parseItmaTrack decodes a single "itma" track record and all of its
// child boma containers.
func parseItmaTrack(r *binreader.Reader) (*Track, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma magic")
	}
	if header != sigItma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad itma magic %q, want %q", header, sigItma)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma length")
	}
	numBoma, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma boma count")
	}
	persistentID, err := r.ReadUint64(16, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma persistent id")
	}
	id, err := r.ReadUint32(24, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma id")
	}
	unchecked, err := r.ReadUint16(42, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma unchecked")
	}
	starredVal, err := r.ReadUint16(62, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma starred")
	}
	rating, err := r.ReadUint8(65)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read itma rating")
	}

	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past itma header")
	}

	track := &Track{
		PersistentID: persistentID,
		ID:           id,
		Starred:      starredVal == 2,
		Rating:       rating,
		Unchecked:    unchecked,
	}

	for i := uint32(0); i < numBoma; i++ {
		container, err := parseBoma(r, track, nil)
		if err != nil {
			return nil, err
		}
		if container != nil {
			track.Bomas = append(track.Bomas, *container)
		}
	}
	return track, nil
}
