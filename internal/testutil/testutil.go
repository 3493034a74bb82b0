package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection is kept open so every query sees the same database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(conn), "failed to apply migrations")
	return conn
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SeedProfile inserts a profile and returns its id.
func SeedProfile(t *testing.T, conn *sql.DB, username string) int64 {
	t.Helper()
	res, err := conn.ExecContext(context.Background(), `INSERT INTO profiles (username) VALUES (?)`, username)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedDeck inserts a deck owned by profileID and returns its id.
func SeedDeck(t *testing.T, conn *sql.DB, profileID int64, name string) int64 {
	t.Helper()
	res, err := conn.ExecContext(context.Background(), `INSERT INTO decks (profile_id, name) VALUES (?, ?)`, profileID, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// FixedNow is a stable clock reading used across tests.
var FixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// Cards builds n new cards for deckID with fronts "wa", "wb", ... at FixedNow.
func Cards(deckID int64, n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		front := string(rune('a' + i))
		cards[i] = models.NewCard(deckID, "w"+front, "t"+front, FixedNow)
	}
	return cards
}
