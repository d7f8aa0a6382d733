package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS tracks (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	title          TEXT    NOT NULL DEFAULT '',
	artist         TEXT    NOT NULL DEFAULT '',
	album          TEXT    NOT NULL DEFAULT '',
	album_artist   TEXT    NOT NULL DEFAULT '',
	track_number   INTEGER NOT NULL DEFAULT 0,
	disc_number    INTEGER NOT NULL DEFAULT 0,
	rating         INTEGER NOT NULL DEFAULT 0,
	genre          TEXT    NOT NULL DEFAULT '',
	lyricist       TEXT    NOT NULL DEFAULT '',
	composer       TEXT    NOT NULL DEFAULT '',
	comment        TEXT    NOT NULL DEFAULT '',
	year           INTEGER NOT NULL DEFAULT 0,
	last_play_date TEXT    NOT NULL DEFAULT '',
	play_counter   INTEGER NOT NULL DEFAULT 0,
	lyrics         TEXT    NOT NULL DEFAULT '',
	resource       TEXT    NOT NULL UNIQUE,
	image_url      TEXT    NOT NULL DEFAULT '',
	duration       INTEGER NOT NULL DEFAULT 0,
	channels       INTEGER NOT NULL DEFAULT 0,
	bit_rate       INTEGER NOT NULL DEFAULT 0,
	sample_rate    INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS radios (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	title     TEXT NOT NULL DEFAULT '',
	resource  TEXT NOT NULL DEFAULT '',
	comment   TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT ''
);
`

func createTables(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
