package domain

import (
	"strconv"
	"time"
)

// FieldKey identifies the role of a metadata attribute
type FieldKey int

const (
	FieldTitle FieldKey = iota
	FieldArtist
	FieldAlbum
	FieldAlbumArtist
	FieldTrackNumber
	FieldDiscNumber
	FieldRating
	FieldGenre
	FieldLyricist
	FieldComposer
	FieldComment
	FieldYear
	FieldLastPlayDate
	FieldPlayCounter
	FieldLyrics
	FieldResource
	FieldChannels
	FieldBitRate
	FieldSampleRate
	FieldDuration
	FieldImageURL
	FieldDatabaseID
)

var fieldNames = [...]string{
	FieldTitle:        "Title",
	FieldArtist:       "Artist",
	FieldAlbum:        "Album",
	FieldAlbumArtist:  "AlbumArtist",
	FieldTrackNumber:  "TrackNumber",
	FieldDiscNumber:   "DiscNumber",
	FieldRating:       "Rating",
	FieldGenre:        "Genre",
	FieldLyricist:     "Lyricist",
	FieldComposer:     "Composer",
	FieldComment:      "Comment",
	FieldYear:         "Year",
	FieldLastPlayDate: "LastPlayDate",
	FieldPlayCounter:  "PlayCounter",
	FieldLyrics:       "Lyrics",
	FieldResource:     "Resource",
	FieldChannels:     "Channels",
	FieldBitRate:      "BitRate",
	FieldSampleRate:   "SampleRate",
	FieldDuration:     "Duration",
	FieldImageURL:     "ImageUrl",
	FieldDatabaseID:   "DatabaseId",
}

func (k FieldKey) String() string {
	if k >= 0 && int(k) < len(fieldNames) {
		return fieldNames[k]
	}
	return "Field(" + strconv.Itoa(int(k)) + ")"
}

// FieldType tells an editor how a field is presented and edited
type FieldType int

const (
	// TypeNone marks keys that have no row presentation
	TypeNone FieldType = iota
	TypeText
	TypeLongText
	TypeInteger
	TypeRating
	TypeDate
)

func (t FieldType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeLongText:
		return "LongText"
	case TypeInteger:
		return "Integer"
	case TypeRating:
		return "Rating"
	case TypeDate:
		return "Date"
	}
	return "None"
}

// ValueKind is the tag of a FieldValue
type ValueKind uint8

const (
	ValueUnset ValueKind = iota
	ValueText
	ValueInteger
	ValueURL
	ValueDate
	ValueRating
)

// FieldValue is a tagged union over the value types a field can hold.
// The zero value is unset.
type FieldValue struct {
	kind ValueKind
	str  string
	num  int64
	date time.Time
}

// TextValue wraps a string
func TextValue(s string) FieldValue { return FieldValue{kind: ValueText, str: s} }

// IntegerValue wraps an integer
func IntegerValue(n int64) FieldValue { return FieldValue{kind: ValueInteger, num: n} }

// URLValue wraps a URL kept in its textual form
func URLValue(u string) FieldValue { return FieldValue{kind: ValueURL, str: u} }

// DateValue wraps a point in time
func DateValue(t time.Time) FieldValue { return FieldValue{kind: ValueDate, date: t} }

// RatingValue wraps a rating on the 0-10 scale
func RatingValue(n int64) FieldValue { return FieldValue{kind: ValueRating, num: n} }

// Kind returns the tag of the value
func (v FieldValue) Kind() ValueKind { return v.kind }

// IsUnset reports whether the value holds nothing
func (v FieldValue) IsUnset() bool { return v.kind == ValueUnset }

// String renders the value as text. Integers and ratings are formatted in
// base 10, dates in RFC 3339, unset as the empty string.
func (v FieldValue) String() string {
	switch v.kind {
	case ValueText, ValueURL:
		return v.str
	case ValueInteger, ValueRating:
		return strconv.FormatInt(v.num, 10)
	case ValueDate:
		if v.date.IsZero() {
			return ""
		}
		return v.date.Format(time.RFC3339)
	}
	return ""
}

// Int returns the numeric payload of integer and rating values. Text values
// are parsed, so user-entered digits still read as numbers.
func (v FieldValue) Int() (int64, bool) {
	switch v.kind {
	case ValueInteger, ValueRating:
		return v.num, true
	case ValueText:
		n, err := strconv.ParseInt(v.str, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Time returns the payload of date values
func (v FieldValue) Time() (time.Time, bool) {
	if v.kind != ValueDate {
		return time.Time{}, false
	}
	return v.date, true
}

// Equal reports whether two values carry the same tag and payload
func (v FieldValue) Equal(o FieldValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueText, ValueURL:
		return v.str == o.str
	case ValueInteger, ValueRating:
		return v.num == o.num
	case ValueDate:
		return v.date.Equal(o.date)
	}
	return true
}

// Field is one key/value pair
type Field struct {
	Key   FieldKey
	Value FieldValue
}

// FieldSet is a sparse set of fields that remembers insertion order.
// Each key appears at most once.
type FieldSet struct {
	keys   []FieldKey
	values map[FieldKey]FieldValue
}

// NewFieldSet builds a set from fields; later duplicates replace earlier ones
func NewFieldSet(fields ...Field) FieldSet {
	s := FieldSet{values: make(map[FieldKey]FieldValue, len(fields))}
	for _, f := range fields {
		s.Set(f.Key, f.Value)
	}
	return s
}

// Len returns the number of fields
func (s FieldSet) Len() int { return len(s.keys) }

// Keys returns the keys in order. The slice must not be modified.
func (s FieldSet) Keys() []FieldKey { return s.keys }

// At returns the field at position i
func (s FieldSet) At(i int) Field {
	k := s.keys[i]
	return Field{Key: k, Value: s.values[k]}
}

// Get looks a key up
func (s FieldSet) Get(k FieldKey) (FieldValue, bool) {
	v, ok := s.values[k]
	return v, ok
}

// Has reports whether k is present
func (s FieldSet) Has(k FieldKey) bool {
	_, ok := s.values[k]
	return ok
}

// Index returns the position of k, or -1
func (s FieldSet) Index(k FieldKey) int {
	if _, ok := s.values[k]; !ok {
		return -1
	}
	for i, key := range s.keys {
		if key == k {
			return i
		}
	}
	return -1
}

// Set stores v under k. A new key goes to the end; an existing key keeps
// its position.
func (s *FieldSet) Set(k FieldKey, v FieldValue) {
	if s.values == nil {
		s.values = make(map[FieldKey]FieldValue)
	}
	if _, ok := s.values[k]; !ok {
		s.keys = append(s.keys, k)
	}
	s.values[k] = v
}

// Remove deletes k, returning false if it was absent
func (s *FieldSet) Remove(k FieldKey) bool {
	idx := s.Index(k)
	if idx < 0 {
		return false
	}
	s.keys = append(s.keys[:idx:idx], s.keys[idx+1:]...)
	delete(s.values, k)
	return true
}

// Fields returns the pairs in order
func (s FieldSet) Fields() []Field {
	out := make([]Field, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Field{Key: k, Value: s.values[k]})
	}
	return out
}

// Clone returns an independent copy
func (s FieldSet) Clone() FieldSet {
	c := FieldSet{
		keys:   make([]FieldKey, len(s.keys)),
		values: make(map[FieldKey]FieldValue, len(s.values)),
	}
	copy(c.keys, s.keys)
	for k, v := range s.values {
		c.values[k] = v
	}
	return c
}
