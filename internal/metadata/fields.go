package metadata

import "github.com/genricoloni/lyra/internal/domain"

// Canonical row sets, in display order.
var (
	trackFields = []domain.FieldKey{
		domain.FieldTitle, domain.FieldArtist,
		domain.FieldAlbum, domain.FieldAlbumArtist,
		domain.FieldTrackNumber, domain.FieldDiscNumber,
		domain.FieldRating, domain.FieldGenre,
		domain.FieldLyricist, domain.FieldComposer,
		domain.FieldComment, domain.FieldYear,
		domain.FieldLastPlayDate, domain.FieldPlayCounter,
		domain.FieldDatabaseID,
	}

	radioFields = []domain.FieldKey{
		domain.FieldTitle, domain.FieldResource,
		domain.FieldComment, domain.FieldDatabaseID,
	}

	newEntryFields = []domain.FieldKey{
		domain.FieldTitle, domain.FieldResource,
		domain.FieldComment, domain.FieldDatabaseID,
	}
)

// CanonicalFields returns the keys that may appear as rows for kind
func CanonicalFields(kind domain.EntryKind) []domain.FieldKey {
	if kind == domain.EntryRadio {
		return radioFields
	}
	return trackFields
}

var labels = map[domain.FieldKey]string{
	domain.FieldTitle:        "Title",
	domain.FieldDuration:     "Duration",
	domain.FieldArtist:       "Artist",
	domain.FieldAlbum:        "Album",
	domain.FieldAlbumArtist:  "Album Artist",
	domain.FieldTrackNumber:  "Track Number",
	domain.FieldDiscNumber:   "Disc Number",
	domain.FieldRating:       "Rating",
	domain.FieldGenre:        "Genre",
	domain.FieldLyricist:     "Lyricist",
	domain.FieldComposer:     "Composer",
	domain.FieldComment:      "Comment",
	domain.FieldYear:         "Year",
	domain.FieldChannels:     "Channels",
	domain.FieldBitRate:      "Bit Rate",
	domain.FieldSampleRate:   "Sample Rate",
	domain.FieldLastPlayDate: "Last played",
	domain.FieldPlayCounter:  "Play count",
	domain.FieldLyrics:       "Lyrics",
	domain.FieldResource:     "Stream Http Address",
}

// Label returns the display label of key; keys without a row presentation
// have none.
func Label(key domain.FieldKey) string {
	return labels[key]
}

var types = map[domain.FieldKey]domain.FieldType{
	domain.FieldTitle:        domain.TypeText,
	domain.FieldResource:     domain.TypeText,
	domain.FieldArtist:       domain.TypeText,
	domain.FieldAlbum:        domain.TypeText,
	domain.FieldAlbumArtist:  domain.TypeText,
	domain.FieldTrackNumber:  domain.TypeInteger,
	domain.FieldDiscNumber:   domain.TypeInteger,
	domain.FieldRating:       domain.TypeRating,
	domain.FieldGenre:        domain.TypeText,
	domain.FieldLyricist:     domain.TypeText,
	domain.FieldComposer:     domain.TypeText,
	domain.FieldComment:      domain.TypeText,
	domain.FieldYear:         domain.TypeInteger,
	domain.FieldLastPlayDate: domain.TypeDate,
	domain.FieldPlayCounter:  domain.TypeInteger,
	domain.FieldLyrics:       domain.TypeLongText,
}

// TypeOf returns how key is presented to an editor
func TypeOf(key domain.FieldKey) domain.FieldType {
	return types[key]
}

// measured keys hold zero or negative values when the measurement is unknown
var measured = map[domain.FieldKey]bool{
	domain.FieldTrackNumber: true,
	domain.FieldDiscNumber:  true,
	domain.FieldChannels:    true,
	domain.FieldBitRate:     true,
	domain.FieldSampleRate:  true,
}
