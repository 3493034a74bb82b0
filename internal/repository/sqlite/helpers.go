package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/db"
)

// TimestampLayout is the fixed format last_reviewed and reviewed_at are
// stored in. It sorts lexically and is understood by SQLite's datetime().
const TimestampLayout = "2006-01-02 15:04:05"

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.UTC)
}

func intervalToSeconds(d *time.Duration) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(d.Seconds()), Valid: true}
}

func secondsToInterval(n sql.NullInt64) *time.Duration {
	if !n.Valid {
		return nil
	}
	d := time.Duration(n.Int64) * time.Second
	return &d
}

func tx(ctx context.Context, conn *sql.DB, fn func(*sql.Tx) error) error {
	return db.Tx(ctx, conn, fn)
}
