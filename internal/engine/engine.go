package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/genricoloni/lyra/internal/domain"
	"github.com/genricoloni/lyra/internal/fetcher"
	"github.com/genricoloni/lyra/internal/metadata"
	"github.com/genricoloni/lyra/internal/navigation"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultDebounce = 500 * time.Millisecond

// ArtworkResolver turns the artwork URL a player reports into a local one
type ArtworkResolver interface {
	Resolve(ctx context.Context, artURL string) (string, error)
}

// Engine owns the navigation controller and the metadata model. Every
// call into them happens on the engine loop: closures posted to the Queue,
// now-playing updates from the monitor and view acknowledgements all run
// there.
type Engine struct {
	logger  *zap.Logger
	cfg     domain.Config
	monitor domain.Monitor
	artwork ArtworkResolver
	queue   *Queue
	model   *metadata.Editable
	nav     *navigation.Controller

	// lastURL is the resource last opened from a now-playing update
	lastURL string

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
	fetches sync.WaitGroup
}

// NewEngine creates the engine. The monitor may be nil, in which case
// now-playing updates are not followed. Without an artwork resolver remote
// artwork URLs are passed to the view as reported.
func NewEngine(
	logger *zap.Logger,
	cfg domain.Config,
	mon domain.Monitor,
	artwork ArtworkResolver,
	queue *Queue,
	catalog *navigation.Catalog,
	model *metadata.Editable,
) *Engine {
	e := &Engine{
		logger:  logger,
		cfg:     cfg,
		monitor: mon,
		artwork: artwork,
		queue:   queue,
		model:   model,
	}
	e.nav = navigation.NewController(logger.Named("navigation"), catalog, e.onViewEvent)
	return e
}

// Navigation returns the controller. It must only be used from closures
// passed to Do.
func (e *Engine) Navigation() *navigation.Controller { return e.nav }

// Model returns the metadata model. It must only be used from closures
// passed to Do.
func (e *Engine) Model() *metadata.Editable { return e.model }

// Do runs fn on the engine loop
func (e *Engine) Do(fn func()) {
	e.queue.Post(fn)
}

// Start launches the engine loop and, when enabled, the now-playing
// monitor. It returns immediately.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done != nil {
		return nil
	}

	e.logger.Info("Engine starting...")

	// lifecycle contexts end with OnStart; the loop lives until Stop
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	e.cancel = cancel
	e.done = make(chan struct{})

	var events <-chan domain.NowPlaying
	if e.following() {
		events = e.monitor.Events()
		go func() {
			if err := e.monitor.Start(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Warn("Now-playing monitor unavailable", zap.Error(err))
			}
		}()
	}

	go e.runLoop(loopCtx, events)
	return nil
}

// runLoop is the single goroutine that owns model and navigation state.
// Now-playing updates are debounced so skipping through tracks only opens
// the last one.
func (e *Engine) runLoop(ctx context.Context, events <-chan domain.NowPlaying) {
	defer close(e.done)

	debounce := e.cfg.GetDebounce()
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	var pending *domain.NowPlaying

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			e.logger.Info("Engine loop stopped")
			return

		case <-e.queue.Ready():
			e.queue.Drain()

		case np, ok := <-events:
			if !ok {
				e.logger.Info("Monitor events channel closed")
				events = nil
				continue
			}
			e.logger.Debug("Now-playing update, debouncing...",
				zap.String("title", np.Title),
				zap.String("url", np.URL))

			pending = &np
			timer.Reset(debounce)

		case <-timer.C:
			if pending != nil {
				e.follow(ctx, *pending)
				pending = nil
			}
		}
	}
}

// follow opens the context view on the track another player moved to
func (e *Engine) follow(ctx context.Context, np domain.NowPlaying) {
	if np.Status != domain.StatusPlaying {
		e.logger.Debug("Player not playing, ignoring",
			zap.String("status", string(np.Status)))
		return
	}
	if np.URL == "" {
		e.logger.Debug("Player did not report a resource", zap.String("title", np.Title))
		return
	}
	if np.URL == e.lastURL {
		return
	}
	e.lastURL = np.URL

	e.logger.Info("Following now playing",
		zap.String("title", np.Title),
		zap.String("artist", np.Artist),
		zap.String("url", np.URL))

	if e.artwork == nil || !fetcher.IsRemote(np.ArtURL) {
		e.openContext(ctx, np, np.ArtURL)
		return
	}

	e.fetches.Add(1)
	go func() {
		defer e.fetches.Done()

		image, err := e.artwork.Resolve(ctx, np.ArtURL)
		if err != nil {
			e.logger.Warn("Failed to fetch artwork",
				zap.String("url", np.ArtURL),
				zap.Error(err))
			image = np.ArtURL
		}

		e.queue.Post(func() {
			if e.lastURL != np.URL {
				e.logger.Debug("Track changed while fetching artwork", zap.String("url", np.URL))
				return
			}
			e.openContext(ctx, np, image)
		})
	}()
}

func (e *Engine) openContext(ctx context.Context, np domain.NowPlaying, image string) {
	e.nav.RequestOpen(domain.ViewContext, domain.ViewParams{
		Title:          np.Title,
		SecondaryTitle: np.Artist,
		ImageURL:       image,
	})
	e.model.InitializeByFileName(ctx, np.URL)
}

// onViewEvent is the headless view host. There is no view to build, so a
// switch is acknowledged on the next loop turn, after the events already
// queued.
func (e *Engine) onViewEvent(ev navigation.ViewEvent) {
	switch ev.Kind {
	case navigation.EventSwitchView:
		e.logger.Debug("Switching view",
			zap.Stringer("view", ev.View),
			zap.String("title", ev.Params.Title))
		e.queue.Post(e.nav.OnViewLoaded)
	case navigation.EventPopView:
		e.logger.Debug("Leaving view")
	case navigation.EventCloseAll:
		e.logger.Debug("All views closed")
	}
}

// Stop stops the monitor and the loop, then waits for background lyrics
// scans. Closures posted afterwards are dropped.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done == nil || e.stopped {
		return nil
	}
	e.stopped = true

	e.logger.Info("Engine stopping...")

	var err error
	if e.following() {
		err = multierr.Append(err, e.monitor.Stop(ctx))
	}

	e.cancel()
	select {
	case <-e.done:
	case <-ctx.Done():
		return multierr.Append(err, ctx.Err())
	}

	e.fetches.Wait()
	e.queue.Close()
	// the loop has exited, so this goroutine now owns the model
	e.model.Close()

	e.logger.Info("Engine stopped")
	return err
}

func (e *Engine) following() bool {
	return e.monitor != nil && e.cfg.FollowNowPlaying()
}
