package itl

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseMlthTrackMaster decodes an "mlth" block into its child "mith"
// track records.
func parseMlthTrackMaster(r *binreader.Reader) ([]*Track, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mlth magic")
	}
	if header != sigMlth {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad mlth magic %q, want %q", header, sigMlth)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mlth header length")
	}
	numMith, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mlth track count")
	}
	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past mlth header")
	}

	tracks := make([]*Track, 0, numMith)
	for i := uint32(0); i < numMith; i++ {
		track, err := parseMith(r)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// parseMith decodes a single "mith" track record and all of its child
// mhoh containers.
func parseMith(r *binreader.Reader) (*Track, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith magic")
	}
	if header != sigMith {
		return nil, errors.Wrapf(errkind.BadMagic, "itl: bad mith magic %q, want %q", header, sigMith)
	}
	headerLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith header length")
	}
	dataLen, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith data length")
	}
	numMhohs, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith mhoh count")
	}
	id, err := r.ReadUint32(16, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith id")
	}
	expectedEndPos := r.Pos() + int(dataLen)

	dateModified, err := r.ReadUint32(32, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith date modified")
	}
	playCount, err := r.ReadUint32(76, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith play count")
	}
	dateLastPlayed, err := r.ReadUint32(100, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith date last played")
	}
	rating, err := r.ReadUint8(108)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith rating")
	}
	unchecked, err := r.ReadUint8(110)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith unchecked")
	}
	dateAdded, err := r.ReadUint32(120, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith date added")
	}
	persistentID, err := r.ReadUint64(128, false)
	if err != nil {
		return nil, errors.Wrap(err, "itl: read mith persistent id")
	}

	if err := r.Advance(int(headerLen)); err != nil {
		return nil, errors.Wrap(err, "itl: advance past mith header")
	}

	track := &Track{
		PersistentID:   persistentID,
		ID:             id,
		DateAdded:      dateAdded,
		DateModified:   dateModified,
		DateLastPlayed: dateLastPlayed,
		PlayCount:      playCount,
		Rating:         rating,
		Unchecked:      unchecked,
	}

	for i := uint32(0); i < numMhohs; i++ {
		container, err := parseMhoh(r)
		if err != nil {
			return nil, err
		}
		if container != nil {
			track.Mhohs = append(track.Mhohs, *container)
		}
	}

	if r.Pos() != expectedEndPos {
		return nil, errors.Wrapf(errkind.LengthMismatch, "itl: mith track ended at %d, expected %d", r.Pos(), expectedEndPos)
	}
	return track, nil
}
