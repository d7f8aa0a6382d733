package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/genricoloni/lyra/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no entry has the requested identifier
	ErrNotFound = errors.New("entry not found")

	// ErrClosed is returned for requests made after Close
	ErrClosed = errors.New("library closed")
)

// Library is a SQLite backed DataLoader. Queries run on their own
// goroutine; replies and acks are handed to the Dispatcher so they run on
// the goroutine that owns the models.
type Library struct {
	logger     *zap.Logger
	db         *sqlx.DB
	scanner    domain.MediaScanner
	dispatcher domain.Dispatcher

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Open opens (creating if needed) the database at path. The scanner reads
// the tags of files that are not in the library; it may be nil.
func Open(
	ctx context.Context,
	logger *zap.Logger,
	path string,
	scanner domain.MediaScanner,
	dispatcher domain.Dispatcher,
) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := createTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Library opened", zap.String("path", path))

	return &Library{
		logger:     logger,
		db:         db,
		scanner:    scanner,
		dispatcher: dispatcher,
	}, nil
}

// LoadByDatabaseID implements domain.DataLoader. Missing entries get no
// reply.
func (l *Library) LoadByDatabaseID(ctx context.Context, kind domain.EntryKind, id int64, reply func(domain.Record)) {
	l.spawn("load", func(log *zap.Logger) {
		rec, err := l.get(ctx, kind, id)
		if err != nil {
			log.Warn("Failed to load entry",
				zap.Stringer("kind", kind),
				zap.Int64("id", id),
				zap.Error(err))
			return
		}
		l.dispatcher.Post(func() { reply(rec) })
	})
}

// LoadByFileName implements domain.DataLoader. A file that is not in the
// library is described from its own tags.
func (l *Library) LoadByFileName(ctx context.Context, kind domain.EntryKind, path string, reply func(domain.Record)) {
	resource := FileURL(path)

	l.spawn("load-file", func(log *zap.Logger) {
		var row trackRow
		err := l.db.GetContext(ctx, &row, `SELECT * FROM tracks WHERE resource = ?`, resource)
		switch {
		case err == nil:
			rec := row.record()
			l.dispatcher.Post(func() { reply(rec) })
			return
		case !errors.Is(err, sql.ErrNoRows):
			log.Warn("Failed to look up file", zap.String("resource", resource), zap.Error(err))
			return
		}

		log.Debug("File not in library, reading tags", zap.String("resource", resource))
		rec := l.describeFile(log, kind, resource)
		l.dispatcher.Post(func() { reply(rec) })
	})
}

// Save implements domain.DataLoader. Entries with an identifier are
// updated, keeping stored fields the record does not carry; the others
// are inserted. The ack receives the record as stored.
func (l *Library) Save(ctx context.Context, rec domain.Record, ack func(domain.Record, error)) {
	ok := l.spawn("save", func(log *zap.Logger) {
		stored, err := l.save(ctx, rec)
		if err != nil {
			log.Warn("Failed to save entry", zap.Stringer("kind", rec.Kind), zap.Error(err))
		} else {
			log.Debug("Entry saved", zap.Int64("id", stored.ID()))
		}
		l.dispatcher.Post(func() { ack(stored, err) })
	})
	if !ok {
		l.dispatcher.Post(func() { ack(domain.Record{}, ErrClosed) })
	}
}

// Delete implements domain.DataLoader
func (l *Library) Delete(ctx context.Context, kind domain.EntryKind, id int64, ack func(error)) {
	ok := l.spawn("delete", func(log *zap.Logger) {
		res, err := l.db.ExecContext(ctx, `DELETE FROM `+table(kind)+` WHERE id = ?`, id)
		if err == nil {
			err = mustAffect(res)
		}
		if err != nil {
			err = fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
			log.Warn("Failed to delete entry", zap.Error(err))
		}
		l.dispatcher.Post(func() { ack(err) })
	})
	if !ok {
		l.dispatcher.Post(func() { ack(ErrClosed) })
	}
}

// Close waits for running requests and closes the database
func (l *Library) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.wg.Wait()
	l.logger.Info("Library closed")
	return l.db.Close()
}

// spawn runs fn on its own goroutine with a logger tagged by a request id.
// It reports false when the library is closed.
func (l *Library) spawn(op string, fn func(log *zap.Logger)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.logger.Warn("Request after close", zap.String("op", op))
		return false
	}

	log := l.logger.With(zap.String("op", op), zap.String("request", uuid.NewString()))
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fn(log)
	}()
	return true
}

func (l *Library) get(ctx context.Context, kind domain.EntryKind, id int64) (domain.Record, error) {
	if kind == domain.EntryRadio {
		var row radioRow
		if err := l.db.GetContext(ctx, &row, `SELECT * FROM radios WHERE id = ?`, id); err != nil {
			return domain.Record{}, notFound(err)
		}
		return row.record(), nil
	}

	var row trackRow
	if err := l.db.GetContext(ctx, &row, `SELECT * FROM tracks WHERE id = ?`, id); err != nil {
		return domain.Record{}, notFound(err)
	}
	return row.record(), nil
}

func (l *Library) save(ctx context.Context, rec domain.Record) (domain.Record, error) {
	kind := rec.Kind
	if kind != domain.EntryRadio {
		kind = domain.EntryTrack
	}

	id := rec.ID()
	merged := rec
	if id >= 0 {
		stored, err := l.get(ctx, kind, id)
		if err != nil {
			return domain.Record{}, fmt.Errorf("failed to update %s %d: %w", kind, id, err)
		}
		merged = overlay(stored, rec)
	}

	var (
		query string
		arg   any
	)
	switch {
	case kind == domain.EntryRadio && id < 0:
		query, arg = insertRadio, radioRowFrom(merged)
	case kind == domain.EntryRadio:
		query, arg = updateRadio, radioRowFrom(merged)
	case id < 0:
		query, arg = insertTrack, trackRowFrom(merged)
	default:
		query, arg = updateTrack, trackRowFrom(merged)
	}

	res, err := l.db.NamedExecContext(ctx, query, arg)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to save %s: %w", kind, err)
	}

	if id < 0 {
		if id, err = res.LastInsertId(); err != nil {
			return domain.Record{}, fmt.Errorf("failed to read new id: %w", err)
		}
	} else if err := mustAffect(res); err != nil {
		return domain.Record{}, fmt.Errorf("failed to update %s %d: %w", kind, id, err)
	}

	return l.get(ctx, kind, id)
}

// describeFile builds a record for a file outside the library from its tags
func (l *Library) describeFile(log *zap.Logger, kind domain.EntryKind, resource string) domain.Record {
	rec := domain.Record{Kind: kind}

	if l.scanner != nil {
		fields, err := l.scanner.Scan(resource)
		if err != nil {
			log.Warn("Failed to read tags", zap.String("resource", resource), zap.Error(err))
		} else {
			rec.Fields = fields.Clone()
		}
	}

	if v, ok := rec.Fields.Get(domain.FieldTitle); !ok || v.String() == "" {
		rec.Fields.Set(domain.FieldTitle, domain.TextValue(baseName(resource)))
	}
	rec.Fields.Set(domain.FieldResource, domain.URLValue(resource))
	rec.Fields.Set(domain.FieldDatabaseID, domain.IntegerValue(domain.NewEntryID))
	return rec
}

// overlay returns base with every field of top applied over it
func overlay(base, top domain.Record) domain.Record {
	out := base.Clone()
	out.Kind = top.Kind
	for _, f := range top.Fields.Fields() {
		out.Fields.Set(f.Key, f.Value)
	}
	return out
}

// FileURL turns a local path into a file URL; URLs are returned unchanged
func FileURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func baseName(resource string) string {
	if u, err := url.Parse(resource); err == nil && u.Path != "" {
		resource = u.Path
	}
	name := filepath.Base(resource)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func table(kind domain.EntryKind) string {
	if kind == domain.EntryRadio {
		return "radios"
	}
	return "tracks"
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const (
	insertTrack = `
INSERT INTO tracks (
	title, artist, album, album_artist, track_number, disc_number, rating,
	genre, lyricist, composer, comment, year, last_play_date, play_counter,
	lyrics, resource, image_url, duration, channels, bit_rate, sample_rate
) VALUES (
	:title, :artist, :album, :album_artist, :track_number, :disc_number, :rating,
	:genre, :lyricist, :composer, :comment, :year, :last_play_date, :play_counter,
	:lyrics, :resource, :image_url, :duration, :channels, :bit_rate, :sample_rate
)`

	updateTrack = `
UPDATE tracks SET
	title = :title, artist = :artist, album = :album, album_artist = :album_artist,
	track_number = :track_number, disc_number = :disc_number, rating = :rating,
	genre = :genre, lyricist = :lyricist, composer = :composer, comment = :comment,
	year = :year, last_play_date = :last_play_date, play_counter = :play_counter,
	lyrics = :lyrics, resource = :resource, image_url = :image_url,
	duration = :duration, channels = :channels, bit_rate = :bit_rate,
	sample_rate = :sample_rate
WHERE id = :id`

	insertRadio = `
INSERT INTO radios (title, resource, comment, image_url)
VALUES (:title, :resource, :comment, :image_url)`

	updateRadio = `
UPDATE radios SET
	title = :title, resource = :resource, comment = :comment, image_url = :image_url
WHERE id = :id`
)
