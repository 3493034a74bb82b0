package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

var cardColumns = []string{
	"id", "deck_id", "front", "back", "status", "interval_seconds", "ease", "step", "last_reviewed", "created_at",
}

func scanCard(row interface{ Scan(...any) error }) (models.Card, error) {
	var (
		c            models.Card
		status       string
		interval     sql.NullInt64
		lastReviewed string
	)
	if err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &status, &interval, &c.Ease, &c.Step, &lastReviewed, &c.CreatedAt); err != nil {
		return c, err
	}
	c.Status = models.CardStatus(status)
	c.Interval = secondsToInterval(interval)
	t, err := parseTimestamp(lastReviewed)
	if err != nil {
		return c, fmt.Errorf("card %d: bad last_reviewed %q: %w", c.ID, lastReviewed, err)
	}
	c.LastReviewed = t
	return c, nil
}

func insertCardQuery(cards ...models.Card) squirrel.InsertBuilder {
	q := sqlBuilder.Insert("cards").
		Columns("deck_id", "front", "back", "status", "interval_seconds", "ease", "step", "last_reviewed")
	for _, c := range cards {
		status := c.Status
		if status == "" {
			status = models.StatusLearning
		}
		ease := c.Ease
		if ease <= 0 {
			ease = models.DefaultEase
		}
		lastReviewed := c.LastReviewed
		if lastReviewed.IsZero() {
			lastReviewed = time.Now()
		}
		q = q.Values(c.DeckID, c.Front, c.Back, string(status), intervalToSeconds(c.Interval), ease, c.Step, formatTimestamp(lastReviewed))
	}
	return q
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d", deckID)

	query, args, err := sqlBuilder.Select(cardColumns...).
		From("cards").
		Where(squirrel.Eq{"deck_id": deckID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	query, args, err := insertCardQuery(c).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards", len(cards))

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range cards {
			query, args, err := insertCardQuery(c).ToSql()
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert card batch: %v", err)
		return nil, err
	}
	return ids, nil
}

func (r *cardRepository) UpdateContent(ctx context.Context, id int64, front, back string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card content: id=%d", id)

	_, err := r.db.ExecContext(ctx, `UPDATE cards SET front = ?, back = ? WHERE id = ?`, front, back, id)
	if err != nil {
		log.Error("failed to update card: %v", err)
	}
	return err
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
	}
	return err
}

// ApplyReview writes the graded scheduling fields and a history row in one
// transaction. Concurrent grades of the same card are last-writer-wins.
func (r *cardRepository) ApplyReview(ctx context.Context, c models.Card, response string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying review: id=%d, status=%s, ease=%.2f, step=%d", c.ID, c.Status, c.Ease, c.Step)

	update, args, err := sqlBuilder.Update("cards").
		Set("status", string(c.Status)).
		Set("interval_seconds", intervalToSeconds(c.Interval)).
		Set("ease", c.Ease).
		Set("step", c.Step).
		Set("last_reviewed", formatTimestamp(c.LastReviewed)).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	err = tx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, update, args...)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return sql.ErrNoRows
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO review_history (card_id, response, reviewed_at)
VALUES (?, ?, ?)
`, c.ID, response, formatTimestamp(c.LastReviewed))
		return err
	})
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to apply review: %v", err)
	}
	return err
}

func (r *cardRepository) History(ctx context.Context, cardID int64) ([]models.ReviewHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("fetching review history: card_id=%d", cardID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, card_id, response, reviewed_at
FROM review_history
WHERE card_id = ?
ORDER BY id ASC
`, cardID)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewHistory
	for rows.Next() {
		var (
			h          models.ReviewHistory
			reviewedAt string
		)
		if err := rows.Scan(&h.ID, &h.CardID, &h.Response, &reviewedAt); err != nil {
			log.Error("failed to scan review history row: %v", err)
			return nil, err
		}
		if h.ReviewedAt, err = parseTimestamp(reviewedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
