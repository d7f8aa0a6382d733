package metadata

import (
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/lyra/internal/domain"
	"github.com/genricoloni/lyra/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func lyricsSet(s string) domain.FieldSet {
	return domain.NewFieldSet(text(domain.FieldLyrics, s))
}

func TestLyrics_AppendedAfterScanCompletes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	scanner := mocks.NewMockMediaScanner(ctrl)
	scanner.EXPECT().Scan("file:///music/so-what.flac").
		DoAndReturn(func(string) (domain.FieldSet, error) {
			<-release
			return lyricsSet("So what, so what"), nil
		})

	log := &eventLog{}
	disp := newQueueDispatcher()
	m := New(zap.NewNop(), nil, scanner, disp, WithHandler(log.handle))
	defer m.Close()

	m.OnRecordDelivered(trackRecord(1))
	rows := m.RowCount()
	log.reset()

	if m.visible.Has(domain.FieldLyrics) {
		t.Fatal("no lyrics row may exist before the scan completes")
	}

	close(release)
	disp.waitAndDrain(t)

	if m.RowCount() != rows+1 {
		t.Fatalf("expected %d rows, got %d", rows+1, m.RowCount())
	}
	if key, _ := m.Key(rows); key != domain.FieldLyrics {
		t.Errorf("lyrics should be the last row, got %v", key)
	}
	if m.Lyrics() != "So what, so what" {
		t.Errorf("unexpected lyrics %q", m.Lyrics())
	}
	if log.count(EventLyricsChanged) != 1 {
		t.Errorf("expected one lyrics event, got %d", log.count(EventLyricsChanged))
	}
	if log.count(EventRowInserted) != 1 || log.count(EventReset) != 0 {
		t.Errorf("lyrics must be an insertion, got %+v", log.events)
	}
	if got := m.Read(rows, AspectType); got.String() != "LongText" {
		t.Errorf("lyrics row should be long text, got %q", got.String())
	}
}

func TestLyrics_EmptyResultChangesNothing(t *testing.T) {
	tests := []struct {
		name string
		ret  domain.FieldSet
		err  error
	}{
		{"Empty lyrics", lyricsSet(""), nil},
		{"No lyrics field", domain.FieldSet{}, nil},
		{"Scan error", domain.FieldSet{}, fmt.Errorf("unsupported format")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			scanner := mocks.NewMockMediaScanner(ctrl)
			scanner.EXPECT().Scan(gomock.Any()).Return(tt.ret, tt.err)

			log := &eventLog{}
			disp := newQueueDispatcher()
			m := New(zap.NewNop(), nil, scanner, disp, WithHandler(log.handle))
			defer m.Close()

			m.OnRecordDelivered(trackRecord(1))
			rows := m.RowCount()
			log.reset()

			disp.waitAndDrain(t)

			if m.RowCount() != rows {
				t.Errorf("no row expected, got %d rows", m.RowCount())
			}
			if len(log.events) != 0 {
				t.Errorf("no event expected, got %+v", log.events)
			}
		})
	}
}

func TestLyrics_NotScannedWhenPresent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// any call fails the test
	scanner := mocks.NewMockMediaScanner(ctrl)

	disp := newQueueDispatcher()
	m := New(zap.NewNop(), nil, scanner, disp)
	m.OnRecordDelivered(trackRecord(1, text(domain.FieldLyrics, "already here")))
	m.Close()

	select {
	case <-disp.posted:
		t.Error("nothing should be posted when lyrics are already known")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLyrics_StaleResultDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	release := make(chan struct{})
	scanner := mocks.NewMockMediaScanner(ctrl)
	scanner.EXPECT().Scan("https://a.example/first").
		DoAndReturn(func(string) (domain.FieldSet, error) {
			<-release
			return lyricsSet("first lyrics"), nil
		})
	scanner.EXPECT().Scan("https://a.example/second").Return(lyricsSet(""), nil)

	disp := newQueueDispatcher()
	m := New(zap.NewNop(), nil, scanner, disp)
	defer m.Close()

	m.InitializeForNewEntry(domain.EntryRadio)
	m.OnRecordDelivered(radioRecord(1, "first", "https://a.example/first"))
	m.InitializeForNewEntry(domain.EntryRadio)
	m.OnRecordDelivered(radioRecord(2, "second", "https://a.example/second"))

	close(release)
	m.lyricsWG.Wait()
	disp.drain()

	if m.visible.Has(domain.FieldLyrics) || m.Lyrics() != "" {
		t.Error("lyrics of the replaced record must be dropped")
	}
	if m.DatabaseID() != 2 {
		t.Errorf("expected record 2, got %d", m.DatabaseID())
	}
}

func TestClose_WaitsForScan(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	started := make(chan struct{})
	release := make(chan struct{})
	scanner := mocks.NewMockMediaScanner(ctrl)
	scanner.EXPECT().Scan(gomock.Any()).
		DoAndReturn(func(string) (domain.FieldSet, error) {
			close(started)
			<-release
			return lyricsSet("late"), nil
		})

	disp := newQueueDispatcher()
	m := New(zap.NewNop(), nil, scanner, disp)
	m.OnRecordDelivered(trackRecord(1))
	<-started

	closed := make(chan struct{})
	go func() {
		m.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a scan was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Timeout: Close did not return after the scan finished")
	}

	rows := m.RowCount()
	disp.drain()
	if m.RowCount() != rows {
		t.Error("result of a scan finished after Close must be discarded")
	}
}
