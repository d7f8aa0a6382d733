package domain

// PlayerStatus represents the playback state reported by an external player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// NowPlaying describes the track another MPRIS player is currently on
type NowPlaying struct {
	// Title of the currently playing track
	Title string
	// Artist name
	Artist string
	// Album name
	Album string
	// ArtURL is the URL or local path to the album artwork
	ArtURL string
	// URL is the location of the media (xesam:url)
	URL string
	// Status is the current playback status
	Status PlayerStatus
}

// EntryKind identifies which kind of entity a record describes, and for
// load requests how the entity is keyed.
type EntryKind int

const (
	// EntryTrack is an indexed audio track
	EntryTrack EntryKind = iota
	// EntryRadio is a web radio stream
	EntryRadio
	// EntryFileName is a resource addressed by its path, possibly not indexed
	EntryFileName
)

func (k EntryKind) String() string {
	switch k {
	case EntryTrack:
		return "track"
	case EntryRadio:
		return "radio"
	case EntryFileName:
		return "file"
	}
	return "unknown"
}

// ViewKind enumerates the browsing modes of the navigation controller
type ViewKind int

const (
	NoView ViewKind = iota
	ViewAllAlbums
	ViewOneAlbum
	ViewAllArtists
	ViewOneArtist
	ViewOneAlbumFromArtist
	ViewAllTracks
	ViewAllGenres
	ViewAllArtistsFromGenre
	ViewOneArtistFromGenre
	ViewOneAlbumFromArtistAndGenre
	ViewRecentlyPlayed
	ViewFrequentlyPlayed
	ViewFilesBrowser
	ViewRadiosBrowser
	ViewContext
)

var viewNames = map[ViewKind]string{
	NoView:                         "NoView",
	ViewAllAlbums:                  "AllAlbums",
	ViewOneAlbum:                   "OneAlbum",
	ViewAllArtists:                 "AllArtists",
	ViewOneArtist:                  "OneArtist",
	ViewOneAlbumFromArtist:         "OneAlbumFromArtist",
	ViewAllTracks:                  "AllTracks",
	ViewAllGenres:                  "AllGenres",
	ViewAllArtistsFromGenre:        "AllArtistsFromGenre",
	ViewOneArtistFromGenre:         "OneArtistFromGenre",
	ViewOneAlbumFromArtistAndGenre: "OneAlbumFromArtistAndGenre",
	ViewRecentlyPlayed:             "RecentlyPlayed",
	ViewFrequentlyPlayed:           "FrequentlyPlayed",
	ViewFilesBrowser:               "FilesBrowser",
	ViewRadiosBrowser:              "RadiosBrowser",
	ViewContext:                    "Context",
}

func (v ViewKind) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "Unknown"
}

// ViewParams carries the parameters a view is opened with. Which fields are
// meaningful depends on the view kind.
type ViewParams struct {
	Title          string
	SecondaryTitle string
	ImageURL       string
	DatabaseID     int64
	GenreName      string
}

// Record is the sparse set of fields describing one track or radio, as
// returned by storage.
type Record struct {
	Kind   EntryKind
	Fields FieldSet
}

// NewRecord builds a record of the given kind from fields, in order
func NewRecord(kind EntryKind, fields ...Field) Record {
	return Record{Kind: kind, Fields: NewFieldSet(fields...)}
}

// ID returns the persistent identifier, or NewEntryID when the record
// carries none.
func (r Record) ID() int64 {
	v, ok := r.Fields.Get(FieldDatabaseID)
	if !ok {
		return NewEntryID
	}
	id, ok := v.Int()
	if !ok {
		return NewEntryID
	}
	return id
}

// Clone returns a copy whose field set can be mutated independently
func (r Record) Clone() Record {
	return Record{Kind: r.Kind, Fields: r.Fields.Clone()}
}

// NewEntryID is the identifier sentinel of an entry not persisted yet
const NewEntryID int64 = -1
