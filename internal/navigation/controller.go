package navigation

import (
	"github.com/genricoloni/lyra/internal/domain"
	"go.uber.org/zap"
)

// EventKind identifies an outward navigation event
type EventKind int

const (
	// EventSwitchView asks the UI to load View with Params
	EventSwitchView EventKind = iota
	// EventCloseAll asks the UI to drop every view
	EventCloseAll
	// EventPopView asks the UI to discard the topmost view
	EventPopView
)

// ViewEvent is emitted towards the UI. View and Params are only set for
// EventSwitchView.
type ViewEvent struct {
	Kind   EventKind
	View   domain.ViewKind
	Params domain.ViewParams
}

// EventHandler receives navigation events synchronously, in emission order
type EventHandler func(ViewEvent)

// Entry is a view together with the parameters it was opened with
type Entry struct {
	View   domain.ViewKind
	Params domain.ViewParams
}

type request struct {
	Entry
	// fromBack marks requests issued by GoBack; completing them does not
	// push the view being left.
	fromBack bool
}

// Controller tracks the displayed view, serializes view loads and keeps the
// back history. It is not safe for concurrent use: every call must happen
// on the owning goroutine.
type Controller struct {
	logger  *zap.Logger
	catalog *Catalog
	emit    EventHandler

	current Entry
	target  request
	// loading is true while the UI is loading a view. superseded is set
	// when target was replaced after that load began.
	loading    bool
	superseded bool
	backStack  []Entry
}

// NewController creates a controller with nothing displayed
func NewController(logger *zap.Logger, catalog *Catalog, emit EventHandler) *Controller {
	if emit == nil {
		emit = func(ViewEvent) {}
	}
	return &Controller{
		logger:  logger,
		catalog: catalog,
		emit:    emit,
	}
}

// RequestOpen asks for view to become current. If no load is outstanding
// the load starts immediately; otherwise the request replaces the pending
// target and the load in progress is superseded.
func (c *Controller) RequestOpen(view domain.ViewKind, params domain.ViewParams) {
	c.request(request{Entry: c.withDefaults(view, params)})
}

func (c *Controller) request(r request) {
	if !c.loading {
		if r.Entry == c.current {
			c.logger.Debug("View already current", zap.Stringer("view", r.View))
			return
		}
		c.target = r
		c.startLoad()
		return
	}

	c.superseded = true
	if r.Entry == c.current {
		// Staying on the displayed view: the load in progress is dropped
		// when it completes.
		c.target = request{}
		return
	}

	c.target = r
	c.logger.Debug("View load outstanding, replacing pending target",
		zap.Stringer("target", r.View))
}

// OnViewLoaded is called by the UI when the view it was asked to load has
// its data. If a newer request arrived meanwhile, the loaded view is dropped
// and the newer one starts loading.
func (c *Controller) OnViewLoaded() {
	if !c.loading {
		c.logger.Debug("View loaded notification without outstanding load, ignoring")
		return
	}

	if c.superseded {
		if c.target.View == domain.NoView {
			c.loading = false
			c.superseded = false
			return
		}
		c.startLoad()
		return
	}

	if c.current.View != domain.NoView && !c.target.fromBack {
		c.backStack = append(c.backStack, c.current)
	}

	c.current = c.target.Entry
	c.target = request{}
	c.loading = false

	c.logger.Debug("View is current",
		zap.Stringer("view", c.current.View),
		zap.Int("history", len(c.backStack)))
}

// GoBack reopens the most recent entry of the history. The view being left
// is not pushed. With an empty history this does nothing.
func (c *Controller) GoBack() {
	if len(c.backStack) == 0 {
		c.logger.Debug("Back requested with empty history, ignoring")
		return
	}

	last := len(c.backStack) - 1
	prev := c.backStack[last]
	c.backStack = c.backStack[:last]

	c.emit(ViewEvent{Kind: EventPopView})
	c.request(request{Entry: prev, fromBack: true})
}

// CloseAll drops every view, the history and any outstanding load
func (c *Controller) CloseAll() {
	c.current = Entry{}
	c.target = request{}
	c.loading = false
	c.superseded = false
	c.backStack = nil

	c.logger.Debug("All views closed")
	c.emit(ViewEvent{Kind: EventCloseAll})
}

// Current returns the displayed view
func (c *Controller) Current() Entry { return c.current }

// Target returns the requested view, NoView when nothing is pending
func (c *Controller) Target() Entry { return c.target.Entry }

// Loading reports whether a view load is outstanding
func (c *Controller) Loading() bool { return c.loading }

// BackStack returns a copy of the history, oldest first
func (c *Controller) BackStack() []Entry {
	out := make([]Entry, len(c.backStack))
	copy(out, c.backStack)
	return out
}

func (c *Controller) startLoad() {
	c.loading = true
	c.superseded = false

	c.logger.Debug("Loading view",
		zap.Stringer("view", c.target.View),
		zap.String("title", c.target.Params.Title))

	c.emit(ViewEvent{
		Kind:   EventSwitchView,
		View:   c.target.View,
		Params: c.target.Params,
	})
}

func (c *Controller) withDefaults(view domain.ViewKind, params domain.ViewParams) Entry {
	if c.catalog != nil {
		params.Title = c.catalog.MainTitle(view, params.Title)
		params.ImageURL = c.catalog.ImageURL(view, params.ImageURL)
	}
	return Entry{View: view, Params: params}
}
