package nowplaying

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/genricoloni/lyra/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"

	propMetadata = playerInterface + ".Metadata"
	propStatus   = playerInterface + ".PlaybackStatus"

	signalPropertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"
	signalNameOwnerChanged  = "org.freedesktop.DBus.NameOwnerChanged"

	dropWarningInterval = 5 * time.Second
)

// Follower reports what other MPRIS players on the session bus are playing.
// It implements domain.Monitor.
type Follower struct {
	logger *zap.Logger
	dial   func() (DBusClient, error)
	events chan domain.NowPlaying

	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	conn            DBusClient
	wg              sync.WaitGroup
	players         map[string]string // unique bus name -> well-known name
	last            map[string]domain.NowPlaying
	lastDropWarning time.Time
}

// NewFollower creates a follower for the session bus
func NewFollower(logger *zap.Logger) *Follower {
	return &Follower{
		logger:  logger,
		dial:    DialSession,
		events:  make(chan domain.NowPlaying, 10),
		players: make(map[string]string),
		last:    make(map[string]domain.NowPlaying),
	}
}

// Start connects to the bus and follows players until ctx is cancelled or
// Stop is called.
func (f *Follower) Start(ctx context.Context) error {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return nil
	}
	f.running = true

	followCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.mu.Unlock()

	conn, err := f.dial()
	if err != nil {
		f.mu.Lock()
		f.running = false
		f.cancel = nil
		f.mu.Unlock()
		cancel()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	select {
	case <-followCtx.Done():
		if err := conn.Close(); err != nil {
			f.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
		return followCtx.Err()
	default:
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		// players started later will go unnoticed
		f.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	}

	f.wg.Add(1)
	func() {
		defer f.wg.Done()
		if err := f.detectPlayers(); err != nil {
			f.logger.Warn("Failed to detect running players", zap.Error(err))
		}
	}()

	f.wg.Add(1)
	go f.watch(followCtx)

	f.logger.Info("Following MPRIS players")

	<-followCtx.Done()
	return followCtx.Err()
}

// Stop ends following and closes the event channel
func (f *Follower) Stop(ctx context.Context) error {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return nil
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.running = false
	f.mu.Unlock()

	f.wg.Wait()
	close(f.events)

	f.mu.Lock()
	if f.conn != nil {
		if err := f.conn.Close(); err != nil {
			f.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
		f.conn = nil
	}
	f.mu.Unlock()

	f.logger.Info("MPRIS follower stopped")
	return nil
}

// Events returns the channel of now-playing changes
func (f *Follower) Events() <-chan domain.NowPlaying {
	return f.events
}

func (f *Follower) detectPlayers() error {
	names, err := f.conn.ListNames()
	if err != nil {
		return fmt.Errorf("failed to list bus names: %w", err)
	}

	count := 0
	for _, name := range names {
		if !strings.HasPrefix(name, mprisPrefix) {
			continue
		}
		count++

		if unique, err := f.conn.GetNameOwner(name); err == nil {
			f.mu.Lock()
			f.players[unique] = name
			f.mu.Unlock()
		}

		if err := f.poll(name); err != nil {
			f.logger.Warn("Failed to read player state",
				zap.String("player", name),
				zap.Error(err))
		}
	}

	f.logger.Info("Player detection complete", zap.Int("count", count))
	return nil
}

// poll reads the current track and status of a player and emits them
func (f *Follower) poll(player string) error {
	variant, err := f.conn.GetProperty(player, mprisPath, propMetadata)
	if err != nil {
		return fmt.Errorf("failed to get metadata: %w", err)
	}

	// idle players may report no metadata at all
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		f.logger.Debug("Player has no metadata", zap.String("player", player))
		return nil
	}

	statusVariant, err := f.conn.GetProperty(player, mprisPath, propStatus)
	if err != nil {
		return fmt.Errorf("failed to get playback status: %w", err)
	}
	status, ok := statusVariant.Value().(string)
	if !ok {
		return fmt.Errorf("invalid playback status format")
	}

	f.emit(player, f.decode(metadata, status))
	return nil
}

func (f *Follower) watch(ctx context.Context) {
	defer f.wg.Done()

	signals := make(chan *dbus.Signal, 10)
	f.conn.Signal(signals)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			if sig.Name == signalNameOwnerChanged {
				f.onOwnerChanged(sig)
			} else {
				f.onPropertiesChanged(sig)
			}
		}
	}
}

// onOwnerChanged tracks players appearing on and leaving the bus
func (f *Follower) onOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}
	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, mprisPrefix) {
		return
	}
	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	f.mu.Lock()
	if oldOwner != "" {
		delete(f.players, oldOwner)
		delete(f.last, name)
	}
	if newOwner != "" {
		f.players[newOwner] = name
	}
	f.mu.Unlock()

	switch {
	case oldOwner == "" && newOwner != "":
		f.logger.Info("MPRIS player appeared", zap.String("player", name))
		if err := f.poll(name); err != nil {
			f.logger.Warn("Failed to read player state",
				zap.String("player", name),
				zap.Error(err))
		}
	case newOwner == "":
		f.logger.Info("MPRIS player left", zap.String("player", name))
	}
}

// onPropertiesChanged emits when a player reports a new track or status
func (f *Follower) onPropertiesChanged(sig *dbus.Signal) {
	if sig.Name != signalPropertiesChanged || len(sig.Body) < 2 {
		return
	}
	iface, ok := sig.Body[0].(string)
	if !ok || iface != playerInterface {
		return
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	metadataVariant, hasMetadata := changed["Metadata"]
	statusVariant, hasStatus := changed["PlaybackStatus"]
	if !hasMetadata && !hasStatus {
		return
	}

	var (
		metadata map[string]dbus.Variant
		status   string
	)

	if hasMetadata {
		metadata, ok = metadataVariant.Value().(map[string]dbus.Variant)
		if !ok {
			f.logger.Warn("Invalid metadata format in signal, ignoring")
			return
		}
	} else if v, err := f.conn.GetProperty(sig.Sender, mprisPath, propMetadata); err == nil {
		metadata, _ = v.Value().(map[string]dbus.Variant)
	}

	if hasStatus {
		status, ok = statusVariant.Value().(string)
		if !ok {
			f.logger.Warn("Invalid playback status format in signal, ignoring")
			return
		}
	} else if v, err := f.conn.GetProperty(sig.Sender, mprisPath, propStatus); err == nil {
		status, _ = v.Value().(string)
	}

	f.emit(f.playerName(sig.Sender), f.decode(metadata, status))
}

// decode maps MPRIS metadata onto a NowPlaying
func (f *Follower) decode(metadata map[string]dbus.Variant, status string) domain.NowPlaying {
	np := domain.NowPlaying{Status: domain.StatusStopped}
	switch domain.PlayerStatus(status) {
	case domain.StatusPlaying, domain.StatusPaused:
		np.Status = domain.PlayerStatus(status)
	}

	if metadata == nil {
		return np
	}

	np.Title = stringOf(metadata["xesam:title"])
	np.Album = stringOf(metadata["xesam:album"])
	np.URL = stringOf(metadata["xesam:url"])
	np.ArtURL = stringOf(metadata["mpris:artUrl"])

	if v, ok := metadata["xesam:artist"]; ok {
		switch artists := v.Value().(type) {
		case []string:
			if len(artists) > 0 {
				np.Artist = artists[0]
			}
		case string:
			np.Artist = artists
		default:
			f.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", v.Value())))
		}
	}
	return np
}

// emit sends np unless it repeats what player last reported. Sends never
// block; the consumer debounces anyway.
func (f *Follower) emit(player string, np domain.NowPlaying) {
	f.mu.Lock()
	if prev, ok := f.last[player]; ok && prev == np {
		f.mu.Unlock()
		f.logger.Debug("Unchanged player state", zap.String("player", player))
		return
	}
	f.last[player] = np
	f.mu.Unlock()

	select {
	case f.events <- np:
		f.logger.Debug("Now playing",
			zap.String("player", player),
			zap.String("title", np.Title),
			zap.String("url", np.URL),
			zap.String("status", string(np.Status)))
	default:
		f.warnDropped()
	}
}

// playerName resolves a unique bus name, falling back to the name itself
func (f *Follower) playerName(unique string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if name, ok := f.players[unique]; ok {
		return name
	}
	return unique
}

func (f *Follower) warnDropped() {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	if now.Sub(f.lastDropWarning) >= dropWarningInterval {
		f.logger.Warn("Events channel full, dropping now-playing update")
		f.lastDropWarning = now
	}
}

func stringOf(v dbus.Variant) string {
	s, _ := v.Value().(string)
	return s
}
