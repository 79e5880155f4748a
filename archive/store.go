// Package archive keeps a Postgres record of published listings. It stores
// broadcast output only, never in-flight sessions, and it is optional: the
// bot runs fully without a database.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kvartirka/listingbot/publish"
)

const insertListing = `
	INSERT INTO published_listings
		(id, user_id, caption, has_video, photo_count, message_id, channel, published_at)
	VALUES
		(:id, :user_id, :caption, :has_video, :photo_count, :message_id, :channel, :published_at)`

// Store persists published listings via sqlx.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type listingRow struct {
	ID          string    `db:"id"`
	UserID      int64     `db:"user_id"`
	Caption     string    `db:"caption"`
	HasVideo    bool      `db:"has_video"`
	PhotoCount  int       `db:"photo_count"`
	MessageID   int       `db:"message_id"`
	Channel     string    `db:"channel"`
	PublishedAt time.Time `db:"published_at"`
}

// RecordPublished implements publish.Recorder.
func (s *Store) RecordPublished(ctx context.Context, p publish.Published) error {
	row := listingRow{
		ID:          p.ListingID,
		UserID:      p.UserID,
		Caption:     p.Caption,
		HasVideo:    p.HasVideo,
		PhotoCount:  p.Photos,
		MessageID:   p.MessageID,
		Channel:     p.Channel,
		PublishedAt: time.Now().UTC(),
	}
	if _, err := s.db.NamedExecContext(ctx, insertListing, row); err != nil {
		return fmt.Errorf("archive: record listing %s: %w", p.ListingID, err)
	}
	return nil
}

// Count reports the number of archived listings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM published_listings`); err != nil {
		return 0, fmt.Errorf("archive: count listings: %w", err)
	}
	return n, nil
}
