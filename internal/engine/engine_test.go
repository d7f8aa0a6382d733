package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/lyra/internal/domain"
	"github.com/genricoloni/lyra/internal/domain/mocks"
	"github.com/genricoloni/lyra/internal/metadata"
	"github.com/genricoloni/lyra/internal/navigation"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type testConfig struct {
	follow bool
}

func (c testConfig) GetDatabasePath() string    { return "" }
func (c testConfig) GetCoverDir() string        { return "" }
func (c testConfig) FollowNowPlaying() bool     { return c.follow }
func (c testConfig) GetDebounce() time.Duration { return 20 * time.Millisecond }

// fakeMonitor feeds now-playing updates from the test
type fakeMonitor struct {
	events   chan domain.NowPlaying
	stopOnce sync.Once
}

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{events: make(chan domain.NowPlaying, 10)}
}

func (m *fakeMonitor) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *fakeMonitor) Stop(context.Context) error {
	m.stopOnce.Do(func() { close(m.events) })
	return nil
}

func (m *fakeMonitor) Events() <-chan domain.NowPlaying { return m.events }

func newTestEngine(t *testing.T, loader domain.DataLoader, mon domain.Monitor, art ArtworkResolver, follow bool) *Engine {
	t.Helper()
	q := NewQueue()
	model := metadata.NewEditable(zap.NewNop(), loader, nil, q)
	e := NewEngine(zap.NewNop(), testConfig{follow: follow}, mon, art, q, navigation.NewCatalog(), model)
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { e.Stop(context.Background()) })
	return e
}

// onLoop runs fn on the engine loop and waits for it
func onLoop(t *testing.T, e *Engine, fn func()) {
	t.Helper()
	done := make(chan struct{})
	e.Do(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout: engine loop did not run the closure")
	}
}

// settle waits until the loop has processed what is already queued,
// including view acknowledgements posted by those closures
func settle(t *testing.T, e *Engine) {
	t.Helper()
	onLoop(t, e, func() {})
	onLoop(t, e, func() {})
}

// fakeArtwork maps remote artwork to cached copies
type fakeArtwork struct {
	cached map[string]string
}

func (f fakeArtwork) Resolve(_ context.Context, artURL string) (string, error) {
	if local, ok := f.cached[artURL]; ok {
		return local, nil
	}
	return "", errors.New("404")
}

func playing(title, url string) domain.NowPlaying {
	return domain.NowPlaying{Title: title, Artist: "Miles Davis", URL: url, Status: domain.StatusPlaying}
}

func TestEngine_FollowsLastTrackAfterDebounce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loaded := make(chan string, 4)
	loader := mocks.NewMockDataLoader(ctrl)
	loader.EXPECT().LoadByFileName(gomock.Any(), domain.EntryFileName, "file:///music/3.flac", gomock.Any()).
		Do(func(_ context.Context, _ domain.EntryKind, path string, reply func(domain.Record)) {
			reply(domain.NewRecord(domain.EntryTrack,
				domain.Field{Key: domain.FieldTitle, Value: domain.TextValue("Blue in Green")},
				domain.Field{Key: domain.FieldResource, Value: domain.URLValue(path)},
				domain.Field{Key: domain.FieldLyrics, Value: domain.TextValue("instrumental")},
				domain.Field{Key: domain.FieldDatabaseID, Value: domain.IntegerValue(3)},
			))
			loaded <- path
		})

	mon := newFakeMonitor()
	e := newTestEngine(t, loader, mon, nil, true)

	mon.events <- playing("So What", "file:///music/1.flac")
	mon.events <- playing("Freddie Freeloader", "file:///music/2.flac")
	mon.events <- playing("Blue in Green", "file:///music/3.flac")

	select {
	case <-loaded:
	case <-time.After(time.Second):
		t.Fatal("Timeout: the last track was never loaded")
	}
	settle(t, e)

	onLoop(t, e, func() {
		nav := e.Navigation()
		if nav.Current().View != domain.ViewContext || nav.Loading() {
			t.Errorf("expected the context view to be current, got %v (loading %v)",
				nav.Current().View, nav.Loading())
		}
		if nav.Current().Params.Title != "Blue in Green" {
			t.Errorf("unexpected title %q", nav.Current().Params.Title)
		}
		if e.Model().DatabaseID() != 3 {
			t.Errorf("expected track 3 in the model, got %d", e.Model().DatabaseID())
		}
	})
}

func TestEngine_IgnoresUnusableUpdates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loaded := make(chan struct{}, 4)
	loader := mocks.NewMockDataLoader(ctrl)
	loader.EXPECT().LoadByFileName(gomock.Any(), gomock.Any(), "file:///music/1.flac", gomock.Any()).
		Do(func(context.Context, domain.EntryKind, string, func(domain.Record)) { loaded <- struct{}{} }).
		Times(1)

	mon := newFakeMonitor()
	e := newTestEngine(t, loader, mon, nil, true)

	paused := playing("So What", "file:///music/9.flac")
	paused.Status = domain.StatusPaused

	updates := []domain.NowPlaying{
		paused,
		playing("Stream without url", ""),
		playing("So What", "file:///music/1.flac"),
		playing("So What", "file:///music/1.flac"),
	}
	for _, np := range updates {
		mon.events <- np
		// let each update pass the debounce on its own
		time.Sleep(60 * time.Millisecond)
	}

	select {
	case <-loaded:
	case <-time.After(time.Second):
		t.Fatal("Timeout: the playing track was never loaded")
	}
	settle(t, e)

	onLoop(t, e, func() {
		if got := len(e.Navigation().BackStack()); got != 0 {
			t.Errorf("only one view should have been opened, back stack has %d", got)
		}
	})
}

func TestEngine_NotFollowingWhenDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mon := newFakeMonitor()
	// any loader call fails the test
	e := newTestEngine(t, mocks.NewMockDataLoader(ctrl), mon, nil, false)

	mon.events <- playing("So What", "file:///music/1.flac")
	time.Sleep(60 * time.Millisecond)
	settle(t, e)

	onLoop(t, e, func() {
		if e.Navigation().Current().View != domain.NoView {
			t.Errorf("no view should be open, got %v", e.Navigation().Current().View)
		}
	})
}

func TestEngine_HeadlessViewHostAcknowledgesLoads(t *testing.T) {
	e := newTestEngine(t, nil, nil, nil, false)

	onLoop(t, e, func() {
		nav := e.Navigation()
		nav.RequestOpen(domain.ViewAllTracks, domain.ViewParams{})
		nav.RequestOpen(domain.ViewAllAlbums, domain.ViewParams{})
	})
	settle(t, e)

	onLoop(t, e, func() {
		nav := e.Navigation()
		if nav.Current().View != domain.ViewAllAlbums || nav.Loading() {
			t.Errorf("expected AllAlbums to be current, got %v (loading %v)", nav.Current().View, nav.Loading())
		}
		if len(nav.BackStack()) != 0 {
			t.Errorf("the superseded view must not enter history, got %v", nav.BackStack())
		}
	})
}

func TestEngine_Stop(t *testing.T) {
	mon := newFakeMonitor()
	q := NewQueue()
	model := metadata.NewEditable(zap.NewNop(), nil, nil, q)
	e := NewEngine(zap.NewNop(), testConfig{follow: true}, mon, nil, q, navigation.NewCatalog(), model)

	if err := e.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start should be a no-op, got %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := e.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := e.Stop(context.Background()); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}

	ran := make(chan struct{})
	e.Do(func() { close(ran) })
	select {
	case <-ran:
		t.Error("closure ran after Stop")
	case <-time.After(50 * time.Millisecond):
	}

	if _, ok := <-mon.events; ok {
		t.Error("monitor should have been stopped")
	}
}

func TestEngine_ResolvesRemoteArtwork(t *testing.T) {
	tests := []struct {
		name   string
		artURL string
		want   string
	}{
		{"cached copy", "https://img.example.org/kind-of-blue.jpg", "file:///cache/kind-of-blue.jpg"},
		{"fetch failure keeps the reported url", "https://img.example.org/missing.jpg", "https://img.example.org/missing.jpg"},
		{"local artwork", "file:///music/cover.jpg", "file:///music/cover.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			loaded := make(chan struct{}, 1)
			loader := mocks.NewMockDataLoader(ctrl)
			loader.EXPECT().LoadByFileName(gomock.Any(), gomock.Any(), "file:///music/1.flac", gomock.Any()).
				Do(func(context.Context, domain.EntryKind, string, func(domain.Record)) { loaded <- struct{}{} })

			art := fakeArtwork{cached: map[string]string{
				"https://img.example.org/kind-of-blue.jpg": "file:///cache/kind-of-blue.jpg",
			}}
			mon := newFakeMonitor()
			e := newTestEngine(t, loader, mon, art, true)

			np := playing("So What", "file:///music/1.flac")
			np.ArtURL = tt.artURL
			mon.events <- np

			select {
			case <-loaded:
			case <-time.After(time.Second):
				t.Fatal("Timeout: the track was never loaded")
			}
			settle(t, e)

			onLoop(t, e, func() {
				if got := e.Navigation().Current().Params.ImageURL; got != tt.want {
					t.Errorf("want image %q, got %q", tt.want, got)
				}
			})
		})
	}
}
