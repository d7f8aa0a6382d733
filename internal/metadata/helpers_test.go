package metadata

import (
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/lyra/internal/domain"
)

// queueDispatcher collects posted closures; tests run them with drain to
// play the role of the owning goroutine.
type queueDispatcher struct {
	mu     sync.Mutex
	queue  []func()
	posted chan struct{}
}

func newQueueDispatcher() *queueDispatcher {
	return &queueDispatcher{posted: make(chan struct{}, 64)}
}

func (d *queueDispatcher) Post(fn func()) {
	d.mu.Lock()
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.posted <- struct{}{}:
	default:
	}
}

func (d *queueDispatcher) drain() {
	d.mu.Lock()
	q := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, fn := range q {
		fn()
	}
}

// waitAndDrain blocks until something is posted, then runs the queue
func (d *queueDispatcher) waitAndDrain(t *testing.T) {
	t.Helper()
	select {
	case <-d.posted:
	case <-time.After(time.Second):
		t.Fatal("Timeout: nothing was posted to the dispatcher")
	}
	d.drain()
}

// eventLog records model events
type eventLog struct {
	events []Event
}

func (l *eventLog) handle(e Event) { l.events = append(l.events, e) }

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (l *eventLog) reset() { l.events = nil }

// staticScanner is a stub returning fixed lyrics
type staticScanner struct {
	lyrics string
}

func (s staticScanner) Scan(string) (domain.FieldSet, error) {
	return domain.NewFieldSet(domain.Field{Key: domain.FieldLyrics, Value: domain.TextValue(s.lyrics)}), nil
}

func text(k domain.FieldKey, s string) domain.Field {
	return domain.Field{Key: k, Value: domain.TextValue(s)}
}

func integer(k domain.FieldKey, n int64) domain.Field {
	return domain.Field{Key: k, Value: domain.IntegerValue(n)}
}

func trackRecord(id int64, extra ...domain.Field) domain.Record {
	fields := []domain.Field{
		text(domain.FieldTitle, "So What"),
		text(domain.FieldArtist, "Miles Davis"),
		text(domain.FieldAlbum, "Kind of Blue"),
		integer(domain.FieldTrackNumber, 1),
		integer(domain.FieldDiscNumber, 0),
		{Key: domain.FieldRating, Value: domain.RatingValue(8)},
		text(domain.FieldGenre, "Jazz"),
		integer(domain.FieldYear, 1959),
		{Key: domain.FieldResource, Value: domain.URLValue("file:///music/so-what.flac")},
		{Key: domain.FieldImageURL, Value: domain.URLValue("file:///music/cover.jpg")},
		integer(domain.FieldDuration, 562),
		integer(domain.FieldDatabaseID, id),
	}
	return domain.NewRecord(domain.EntryTrack, append(fields, extra...)...)
}

func radioRecord(id int64, title, resource string) domain.Record {
	return domain.NewRecord(domain.EntryRadio,
		integer(domain.FieldDatabaseID, id),
		text(domain.FieldComment, "jazz radio"),
		text(domain.FieldResource, resource),
		text(domain.FieldTitle, title),
	)
}
