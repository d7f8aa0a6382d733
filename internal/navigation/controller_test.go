package navigation

import (
	"testing"

	"github.com/genricoloni/lyra/internal/domain"
	"go.uber.org/zap"
)

// recorder collects emitted events
type recorder struct {
	events []ViewEvent
}

func (r *recorder) handle(e ViewEvent) { r.events = append(r.events, e) }

func (r *recorder) switches() []domain.ViewKind {
	var out []domain.ViewKind
	for _, e := range r.events {
		if e.Kind == EventSwitchView {
			out = append(out, e.View)
		}
	}
	return out
}

func newTestController() (*Controller, *recorder) {
	rec := &recorder{}
	return NewController(zap.NewNop(), NewCatalog(), rec.handle), rec
}

// open requests a view and immediately acknowledges its load
func open(c *Controller, view domain.ViewKind, params domain.ViewParams) {
	c.RequestOpen(view, params)
	c.OnViewLoaded()
}

func TestRequestOpen_StartsLoadImmediately(t *testing.T) {
	c, rec := newTestController()

	c.RequestOpen(domain.ViewAllTracks, domain.ViewParams{})

	if !c.Loading() {
		t.Fatal("expected a load to be outstanding")
	}
	if got := rec.switches(); len(got) != 1 || got[0] != domain.ViewAllTracks {
		t.Fatalf("expected one switch to AllTracks, got %v", got)
	}
	if c.Current().View != domain.NoView {
		t.Errorf("view must not be current before it is loaded, got %v", c.Current().View)
	}

	c.OnViewLoaded()

	if c.Loading() {
		t.Error("load should be complete")
	}
	if c.Current().View != domain.ViewAllTracks {
		t.Errorf("expected AllTracks current, got %v", c.Current().View)
	}
	if c.Target().View != domain.NoView {
		t.Errorf("pending target should be cleared, got %v", c.Target().View)
	}
	if len(c.BackStack()) != 0 {
		t.Errorf("NoView must not be pushed, history=%v", c.BackStack())
	}
}

func TestRequestOpen_LatestRequestWins(t *testing.T) {
	c, rec := newTestController()

	c.RequestOpen(domain.ViewAllTracks, domain.ViewParams{})
	c.RequestOpen(domain.ViewAllGenres, domain.ViewParams{})
	c.RequestOpen(domain.ViewAllAlbums, domain.ViewParams{})

	if got := rec.switches(); len(got) != 1 {
		t.Fatalf("a second load must not start while one is outstanding, got %v", got)
	}

	// AllTracks finished loading but was superseded
	c.OnViewLoaded()

	if c.Current().View == domain.ViewAllTracks {
		t.Fatal("superseded view must never become current")
	}
	if !c.Loading() {
		t.Fatal("pending target should be loading")
	}
	got := rec.switches()
	if len(got) != 2 || got[1] != domain.ViewAllAlbums {
		t.Fatalf("expected load of AllAlbums after AllTracks, got %v", got)
	}

	c.OnViewLoaded()

	if c.Current().View != domain.ViewAllAlbums {
		t.Errorf("expected AllAlbums current, got %v", c.Current().View)
	}
	if c.Loading() {
		t.Error("no load should remain outstanding")
	}
	if len(c.BackStack()) != 0 {
		t.Errorf("history should be empty, got %v", c.BackStack())
	}
}

func TestGoBack_RestoresExactParams(t *testing.T) {
	c, rec := newTestController()

	albumParams := domain.ViewParams{
		Title:          "Blue Train",
		SecondaryTitle: "John Coltrane",
		ImageURL:       "file:///covers/blue-train.jpg",
		DatabaseID:     42,
	}
	open(c, domain.ViewOneAlbum, albumParams)
	open(c, domain.ViewAllArtists, domain.ViewParams{})

	if h := c.BackStack(); len(h) != 1 || h[0].View != domain.ViewOneAlbum {
		t.Fatalf("expected OneAlbum in history, got %v", h)
	}

	rec.events = nil
	c.GoBack()

	if len(rec.events) != 2 || rec.events[0].Kind != EventPopView {
		t.Fatalf("expected pop then switch, got %+v", rec.events)
	}
	if rec.events[1].Params != albumParams {
		t.Errorf("params not restored: want %+v, got %+v", albumParams, rec.events[1].Params)
	}

	c.OnViewLoaded()

	if c.Current().View != domain.ViewOneAlbum || c.Current().Params != albumParams {
		t.Errorf("expected OneAlbum restored, got %+v", c.Current())
	}
	if h := c.BackStack(); len(h) != 0 {
		t.Errorf("the view being left must not be pushed, history=%v", h)
	}
}

func TestGoBack_EmptyHistoryIsNoop(t *testing.T) {
	c, rec := newTestController()
	open(c, domain.ViewAllTracks, domain.ViewParams{})
	rec.events = nil

	c.GoBack()

	if len(rec.events) != 0 {
		t.Errorf("no events expected, got %+v", rec.events)
	}
	if c.Current().View != domain.ViewAllTracks || c.Loading() {
		t.Error("state must be unchanged")
	}
}

func TestGoBack_SinglePopPerCall(t *testing.T) {
	c, _ := newTestController()
	open(c, domain.ViewAllAlbums, domain.ViewParams{})
	open(c, domain.ViewAllArtists, domain.ViewParams{})
	open(c, domain.ViewAllTracks, domain.ViewParams{})

	c.GoBack()
	c.GoBack() // replaces the pending target while the first back is loading

	if h := c.BackStack(); len(h) != 0 {
		t.Fatalf("each call pops one entry, history=%v", h)
	}

	c.OnViewLoaded() // AllArtists loaded but superseded
	c.OnViewLoaded()

	if c.Current().View != domain.ViewAllAlbums {
		t.Errorf("expected AllAlbums, got %v", c.Current().View)
	}
}

func TestCloseAll(t *testing.T) {
	c, rec := newTestController()
	open(c, domain.ViewAllAlbums, domain.ViewParams{})
	open(c, domain.ViewAllArtists, domain.ViewParams{})
	c.RequestOpen(domain.ViewAllTracks, domain.ViewParams{})

	c.CloseAll()

	if c.Current().View != domain.NoView || c.Target().View != domain.NoView {
		t.Errorf("expected NoView, got current=%v target=%v", c.Current().View, c.Target().View)
	}
	if c.Loading() {
		t.Error("outstanding load should be dropped")
	}
	if len(c.BackStack()) != 0 {
		t.Error("history should be cleared")
	}
	if last := rec.events[len(rec.events)-1]; last.Kind != EventCloseAll {
		t.Errorf("expected close event, got %+v", last)
	}

	// a late acknowledgement of the dropped load is ignored
	c.OnViewLoaded()
	if c.Current().View != domain.NoView {
		t.Errorf("late load must be ignored, got %v", c.Current().View)
	}
}

func TestRequestOpen_CurrentViewDuringLoad(t *testing.T) {
	c, rec := newTestController()
	open(c, domain.ViewAllAlbums, domain.ViewParams{})

	c.RequestOpen(domain.ViewAllTracks, domain.ViewParams{})
	c.RequestOpen(domain.ViewAllAlbums, domain.ViewParams{})

	if c.Target().View == c.Current().View {
		t.Fatal("target must not equal current while a load is outstanding")
	}

	c.OnViewLoaded()

	if c.Loading() {
		t.Error("load should be finished")
	}
	if c.Current().View != domain.ViewAllAlbums {
		t.Errorf("expected to stay on AllAlbums, got %v", c.Current().View)
	}
	if got := rec.switches(); len(got) != 2 {
		t.Errorf("no extra load expected, got %v", got)
	}
}

func TestRequestOpen_FillsCatalogDefaults(t *testing.T) {
	c, rec := newTestController()

	c.RequestOpen(domain.ViewRadiosBrowser, domain.ViewParams{})

	p := rec.events[0].Params
	if p.Title != "Radios" || p.ImageURL != "image://icon/radio" {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestOnViewLoaded_WithoutLoadIsIgnored(t *testing.T) {
	c, rec := newTestController()
	c.OnViewLoaded()
	if c.Current().View != domain.NoView || len(rec.events) != 0 {
		t.Error("spurious acknowledgement must be ignored")
	}
}
