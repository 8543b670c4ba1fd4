package musicdb

import (
	"github.com/pkg/errors"

	"github.com/mewkiz/itunesdb/errkind"
	"github.com/mewkiz/itunesdb/internal/binreader"
)

// parseLpmaPlaylists decodes an "lPma" section into its child "lpma"
// playlist records.
func parseLpmaPlaylists(r *binreader.Reader) ([]*Playlist, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lPma magic")
	}
	if header != sigLPma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad lPma magic %q, want %q", header, sigLPma)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lPma length")
	}
	numLpma, err := r.ReadUint32(8, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lPma count")
	}
	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past lPma header")
	}

	playlists := make([]*Playlist, 0, numLpma)
	for i := uint32(0); i < numLpma; i++ {
		playlist, err := parseLpmaItem(r)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// parseLpmaItem decodes a single "lpma" playlist record and all of its
// child boma containers.
func parseLpmaItem(r *binreader.Reader) (*Playlist, error) {
	header, err := r.ReadFixedString(0, 4)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma magic")
	}
	if header != sigLpma {
		return nil, errors.Wrapf(errkind.BadMagic, "musicdb: bad lpma magic %q, want %q", header, sigLpma)
	}
	sectionLen, err := r.ReadUint32(4, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma length")
	}
	numBoma, err := r.ReadUint32(12, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma boma count")
	}
	numTracks, err := r.ReadUint32(16, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma track count")
	}
	dateCreated, err := r.ReadUint32(22, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma date created")
	}
	persistentID, err := r.ReadUint64(39, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma persistent id")
	}
	dateModified, err := r.ReadUint32(138, false)
	if err != nil {
		return nil, errors.Wrap(err, "musicdb: read lpma date modified")
	}

	if err := r.Advance(int(sectionLen)); err != nil {
		return nil, errors.Wrap(err, "musicdb: advance past lpma header")
	}

	playlist := &Playlist{
		PersistentID: persistentID,
		DateCreated:  dateCreated,
		DateModified: dateModified,
		NumTracks:    numTracks,
	}

	for i := uint32(0); i < numBoma; i++ {
		container, err := parseBoma(r, nil, playlist)
		if err != nil {
			return nil, err
		}
		if container != nil {
			playlist.Bomas = append(playlist.Bomas, *container)
		}
	}
	return playlist, nil
}
