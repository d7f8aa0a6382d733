package storage

import (
	"time"

	"github.com/genricoloni/lyra/internal/domain"
)

type trackRow struct {
	ID           int64  `db:"id"`
	Title        string `db:"title"`
	Artist       string `db:"artist"`
	Album        string `db:"album"`
	AlbumArtist  string `db:"album_artist"`
	TrackNumber  int64  `db:"track_number"`
	DiscNumber   int64  `db:"disc_number"`
	Rating       int64  `db:"rating"`
	Genre        string `db:"genre"`
	Lyricist     string `db:"lyricist"`
	Composer     string `db:"composer"`
	Comment      string `db:"comment"`
	Year         int64  `db:"year"`
	LastPlayDate string `db:"last_play_date"`
	PlayCounter  int64  `db:"play_counter"`
	Lyrics       string `db:"lyrics"`
	Resource     string `db:"resource"`
	ImageURL     string `db:"image_url"`
	Duration     int64  `db:"duration"`
	Channels     int64  `db:"channels"`
	BitRate      int64  `db:"bit_rate"`
	SampleRate   int64  `db:"sample_rate"`
}

type radioRow struct {
	ID       int64  `db:"id"`
	Title    string `db:"title"`
	Resource string `db:"resource"`
	Comment  string `db:"comment"`
	ImageURL string `db:"image_url"`
}

func (r trackRow) record() domain.Record {
	rec := domain.NewRecord(domain.EntryTrack,
		domain.Field{Key: domain.FieldTitle, Value: domain.TextValue(r.Title)},
		domain.Field{Key: domain.FieldArtist, Value: domain.TextValue(r.Artist)},
		domain.Field{Key: domain.FieldAlbum, Value: domain.TextValue(r.Album)},
		domain.Field{Key: domain.FieldAlbumArtist, Value: domain.TextValue(r.AlbumArtist)},
		domain.Field{Key: domain.FieldTrackNumber, Value: domain.IntegerValue(r.TrackNumber)},
		domain.Field{Key: domain.FieldDiscNumber, Value: domain.IntegerValue(r.DiscNumber)},
		domain.Field{Key: domain.FieldRating, Value: domain.RatingValue(r.Rating)},
		domain.Field{Key: domain.FieldGenre, Value: domain.TextValue(r.Genre)},
		domain.Field{Key: domain.FieldLyricist, Value: domain.TextValue(r.Lyricist)},
		domain.Field{Key: domain.FieldComposer, Value: domain.TextValue(r.Composer)},
		domain.Field{Key: domain.FieldComment, Value: domain.TextValue(r.Comment)},
		domain.Field{Key: domain.FieldYear, Value: domain.IntegerValue(r.Year)},
		domain.Field{Key: domain.FieldPlayCounter, Value: domain.IntegerValue(r.PlayCounter)},
		domain.Field{Key: domain.FieldResource, Value: domain.URLValue(r.Resource)},
		domain.Field{Key: domain.FieldDuration, Value: domain.IntegerValue(r.Duration)},
		domain.Field{Key: domain.FieldChannels, Value: domain.IntegerValue(r.Channels)},
		domain.Field{Key: domain.FieldBitRate, Value: domain.IntegerValue(r.BitRate)},
		domain.Field{Key: domain.FieldSampleRate, Value: domain.IntegerValue(r.SampleRate)},
		domain.Field{Key: domain.FieldDatabaseID, Value: domain.IntegerValue(r.ID)},
	)

	// absent rather than empty, so the model knows to look for them
	if t, err := time.Parse(time.RFC3339, r.LastPlayDate); err == nil {
		rec.Fields.Set(domain.FieldLastPlayDate, domain.DateValue(t))
	}
	if r.Lyrics != "" {
		rec.Fields.Set(domain.FieldLyrics, domain.TextValue(r.Lyrics))
	}
	if r.ImageURL != "" {
		rec.Fields.Set(domain.FieldImageURL, domain.URLValue(r.ImageURL))
	}
	return rec
}

func trackRowFrom(rec domain.Record) trackRow {
	f := rec.Fields
	r := trackRow{
		ID:          rec.ID(),
		Title:       text(f, domain.FieldTitle),
		Artist:      text(f, domain.FieldArtist),
		Album:       text(f, domain.FieldAlbum),
		AlbumArtist: text(f, domain.FieldAlbumArtist),
		TrackNumber: number(f, domain.FieldTrackNumber),
		DiscNumber:  number(f, domain.FieldDiscNumber),
		Rating:      number(f, domain.FieldRating),
		Genre:       text(f, domain.FieldGenre),
		Lyricist:    text(f, domain.FieldLyricist),
		Composer:    text(f, domain.FieldComposer),
		Comment:     text(f, domain.FieldComment),
		Year:        number(f, domain.FieldYear),
		PlayCounter: number(f, domain.FieldPlayCounter),
		Lyrics:      text(f, domain.FieldLyrics),
		Resource:    text(f, domain.FieldResource),
		ImageURL:    text(f, domain.FieldImageURL),
		Duration:    number(f, domain.FieldDuration),
		Channels:    number(f, domain.FieldChannels),
		BitRate:     number(f, domain.FieldBitRate),
		SampleRate:  number(f, domain.FieldSampleRate),
	}
	if v, ok := f.Get(domain.FieldLastPlayDate); ok {
		if t, ok := v.Time(); ok {
			r.LastPlayDate = t.UTC().Format(time.RFC3339)
		}
	}
	return r
}

func (r radioRow) record() domain.Record {
	rec := domain.NewRecord(domain.EntryRadio,
		domain.Field{Key: domain.FieldTitle, Value: domain.TextValue(r.Title)},
		domain.Field{Key: domain.FieldResource, Value: domain.URLValue(r.Resource)},
		domain.Field{Key: domain.FieldComment, Value: domain.TextValue(r.Comment)},
		domain.Field{Key: domain.FieldDatabaseID, Value: domain.IntegerValue(r.ID)},
	)
	if r.ImageURL != "" {
		rec.Fields.Set(domain.FieldImageURL, domain.URLValue(r.ImageURL))
	}
	return rec
}

func radioRowFrom(rec domain.Record) radioRow {
	return radioRow{
		ID:       rec.ID(),
		Title:    text(rec.Fields, domain.FieldTitle),
		Resource: text(rec.Fields, domain.FieldResource),
		Comment:  text(rec.Fields, domain.FieldComment),
		ImageURL: text(rec.Fields, domain.FieldImageURL),
	}
}

func text(f domain.FieldSet, key domain.FieldKey) string {
	v, _ := f.Get(key)
	return v.String()
}

func number(f domain.FieldSet, key domain.FieldKey) int64 {
	v, _ := f.Get(key)
	n, _ := v.Int()
	return n
}
