package metadata

import (
	"context"
	"net/url"
	"sync"

	"github.com/genricoloni/lyra/internal/domain"
	"go.uber.org/zap"
)

// DefaultCoverURL is shown when a record has no cover image
const DefaultCoverURL = "image://icon/media-optical-audio"

// Aspect selects what Read returns for a row
type Aspect int

const (
	AspectValue Aspect = iota
	AspectLabel
	AspectType
)

// EventKind identifies a model notification
type EventKind int

const (
	// EventReset means every row was rebuilt
	EventReset EventKind = iota
	// EventRowChanged means the value at Row changed
	EventRowChanged
	// EventRowInserted means a row was inserted at Row
	EventRowInserted
	// EventRowRemoved means the row at Row was removed
	EventRowRemoved
	EventLyricsChanged
	EventDatabaseIDChanged
	EventCoverChanged
	EventFileURLChanged
	EventDirtyChanged
	EventValidityChanged
	EventErrorMessageChanged
)

// Event is a model notification. Row is only meaningful for row events.
type Event struct {
	Kind EventKind
	Row  int
}

// Handler receives model events synchronously on the owning goroutine
type Handler func(Event)

// Option configures a Model
type Option func(*Model)

// WithHandler installs the event handler
func WithHandler(h Handler) Option {
	return func(m *Model) {
		if h != nil {
			m.emit = h
		}
	}
}

// Model presents the metadata of one track or radio as an ordered list of
// typed rows. Records are loaded asynchronously through a DataLoader and
// lyrics are extracted in the background with a MediaScanner.
//
// Model is not safe for concurrent use. Every method except Close must be
// called on the goroutine behind the Dispatcher.
type Model struct {
	logger     *zap.Logger
	loader     domain.DataLoader
	scanner    domain.MediaScanner
	dispatcher domain.Dispatcher
	emit       Handler

	kind       domain.EntryKind
	fullData   domain.FieldSet
	visible    domain.FieldSet
	databaseID int64
	coverURL   string
	fileURL    string

	// loadGen identifies the latest load request; recordGen the record
	// currently held. Replies and lyrics carrying an older value are stale.
	loadGen   uint64
	recordGen uint64

	// afterChange runs after every structural change of the rows
	afterChange func()

	closed    bool
	closeOnce sync.Once
	lyricsWG  sync.WaitGroup
}

// New creates an empty model
func New(
	logger *zap.Logger,
	loader domain.DataLoader,
	scanner domain.MediaScanner,
	dispatcher domain.Dispatcher,
	opts ...Option,
) *Model {
	m := &Model{
		logger:      logger,
		loader:      loader,
		scanner:     scanner,
		dispatcher:  dispatcher,
		emit:        func(Event) {},
		databaseID:  domain.NewEntryID,
		afterChange: func() {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InitializeByID clears the model and requests the entity with the given
// identifier.
func (m *Model) InitializeByID(ctx context.Context, kind domain.EntryKind, id int64) {
	gen := m.clear(kind)

	m.logger.Debug("Requesting record by id",
		zap.Stringer("kind", kind),
		zap.Int64("id", id))

	m.loader.LoadByDatabaseID(ctx, kind, id, m.replyFor(gen))
}

// InitializeByFileName clears the model and requests the resource at path,
// which does not need to be indexed.
func (m *Model) InitializeByFileName(ctx context.Context, path string) {
	gen := m.clear(domain.EntryTrack)

	m.logger.Debug("Requesting record by file name", zap.String("path", path))

	m.loader.LoadByFileName(ctx, domain.EntryFileName, path, m.replyFor(gen))
}

// InitializeForNewEntry shows an empty template for an entry that does not
// exist yet. Nothing is loaded.
func (m *Model) InitializeForNewEntry(kind domain.EntryKind) {
	m.clear(kind)

	m.visible = domain.FieldSet{}
	for _, key := range newEntryFields {
		if key == domain.FieldDatabaseID {
			m.visible.Set(key, domain.IntegerValue(domain.NewEntryID))
			continue
		}
		m.visible.Set(key, domain.TextValue(""))
	}
	m.fullData = m.visible.Clone()

	m.emit(Event{Kind: EventReset})
	m.afterChange()
}

// OnRecordDelivered replaces the model content with rec. A delivery is
// dropped when the model holds a persisted entry with another identifier.
func (m *Model) OnRecordDelivered(rec domain.Record) {
	if m.closed {
		return
	}
	if held := m.heldID(); held >= 0 && rec.ID() != held {
		m.logger.Debug("Dropping record for another entry",
			zap.Int64("held", held),
			zap.Int64("delivered", rec.ID()))
		return
	}

	m.fill(rec)
}

func (m *Model) fill(rec domain.Record) {
	m.recordGen++
	m.kind = rec.Kind
	m.fullData = rec.Fields.Clone()
	m.visible = domain.FieldSet{}

	for _, key := range CanonicalFields(rec.Kind) {
		v, ok := m.fullData.Get(key)
		if !ok {
			continue
		}
		if key == domain.FieldRating {
			if n, _ := v.Int(); n == 0 {
				continue
			}
		}
		m.visible.Set(key, v)
	}

	m.emit(Event{Kind: EventReset})
	m.afterChange()

	m.fetchLyrics()

	m.databaseID = rec.ID()
	m.emit(Event{Kind: EventDatabaseIDChanged})

	m.coverURL = m.DataFor(domain.FieldImageURL).String()
	m.emit(Event{Kind: EventCoverChanged})

	m.fileURL = localOrRemote(m.DataFor(domain.FieldResource).String())
	m.emit(Event{Kind: EventFileURLChanged})

	m.logger.Debug("Record loaded",
		zap.Stringer("kind", rec.Kind),
		zap.Int64("id", m.databaseID),
		zap.Int("rows", m.visible.Len()))
}

// RowCount returns the number of rows
func (m *Model) RowCount() int {
	return m.visible.Len()
}

// Key returns the field key shown at row
func (m *Model) Key(row int) (domain.FieldKey, bool) {
	if row < 0 || row >= m.visible.Len() {
		return 0, false
	}
	return m.visible.Keys()[row], true
}

// Read returns one aspect of a row. Labels and types are returned as text
// values; an out of range row reads as unset.
func (m *Model) Read(row int, aspect Aspect) domain.FieldValue {
	key, ok := m.Key(row)
	if !ok {
		return domain.FieldValue{}
	}

	switch aspect {
	case AspectLabel:
		return domain.TextValue(Label(key))
	case AspectType:
		return domain.TextValue(TypeOf(key).String())
	}
	return m.Value(row)
}

// Value returns the value at row. Measurements that are zero or negative
// read as unset.
func (m *Model) Value(row int) domain.FieldValue {
	key, ok := m.Key(row)
	if !ok {
		return domain.FieldValue{}
	}

	v, _ := m.visible.Get(key)
	if measured[key] {
		if n, ok := v.Int(); !ok || n <= 0 {
			return domain.FieldValue{}
		}
	}
	return v
}

// Write stores v at row and reports whether anything changed
func (m *Model) Write(row int, v domain.FieldValue) bool {
	key, ok := m.Key(row)
	if !ok {
		return false
	}
	if m.Value(row).Equal(v) {
		return false
	}

	m.visible.Set(key, v)
	m.fullData.Set(key, v)

	m.emit(Event{Kind: EventRowChanged, Row: row})
	return true
}

// RemoveField removes the row showing key, if any
func (m *Model) RemoveField(key domain.FieldKey) {
	row := m.visible.Index(key)
	if row < 0 {
		return
	}
	m.visible.Remove(key)
	m.emit(Event{Kind: EventRowRemoved, Row: row})
}

// DataFor looks key up in the full record, including fields not shown as
// rows. Missing keys read as unset.
func (m *Model) DataFor(key domain.FieldKey) domain.FieldValue {
	v, _ := m.fullData.Get(key)
	return v
}

// Kind returns the kind of the held entry
func (m *Model) Kind() domain.EntryKind { return m.kind }

// DatabaseID returns the identifier of the held record
func (m *Model) DatabaseID() int64 { return m.databaseID }

// FileURL returns the local path of the resource, or its URL when remote
func (m *Model) FileURL() string { return m.fileURL }

// CoverURL returns the cover image locator
func (m *Model) CoverURL() string {
	if m.coverURL == "" {
		return DefaultCoverURL
	}
	return m.coverURL
}

// Lyrics returns the lyrics of the held record
func (m *Model) Lyrics() string {
	return m.DataFor(domain.FieldLyrics).String()
}

// Close waits for a running lyrics scan and discards its result. Like every
// other method it runs on the owning goroutine, which requires a Dispatcher
// whose Post never blocks.
func (m *Model) Close() {
	m.closeOnce.Do(func() {
		m.closed = true
		m.recordGen++
		m.lyricsWG.Wait()
		m.logger.Debug("Metadata model closed")
	})
}

// clear drops the held record and starts a new request generation
func (m *Model) clear(kind domain.EntryKind) uint64 {
	m.loadGen++
	m.recordGen++
	m.kind = kind
	m.fullData = domain.FieldSet{}
	m.visible = domain.FieldSet{}
	m.databaseID = domain.NewEntryID
	m.coverURL = ""
	m.fileURL = ""

	m.emit(Event{Kind: EventReset})
	m.emit(Event{Kind: EventLyricsChanged})
	return m.loadGen
}

// replyFor wraps OnRecordDelivered so replies to superseded requests are
// dropped.
func (m *Model) replyFor(gen uint64) func(domain.Record) {
	return func(rec domain.Record) {
		if gen != m.loadGen {
			m.logger.Debug("Dropping reply to superseded request",
				zap.Int64("id", rec.ID()))
			return
		}
		m.OnRecordDelivered(rec)
	}
}

// heldID returns the identifier of the held record, or NewEntryID
func (m *Model) heldID() int64 {
	if m.fullData.Len() == 0 {
		return domain.NewEntryID
	}
	return domain.Record{Fields: m.fullData}.ID()
}

func localOrRemote(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" {
		return raw
	}
	return u.Path
}
