package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

var deckColumns = []string{"id", "profile_id", "name", "source_title", "language", "created_at"}

func scanDeck(row interface{ Scan(...any) error }, d *models.Deck) error {
	return row.Scan(&d.ID, &d.ProfileID, &d.Name, &d.SourceTitle, &d.Language, &d.CreatedAt)
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	query, args, err := sqlBuilder.Select(deckColumns...).From("decks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var d models.Deck
	err = scanDeck(r.db.QueryRowContext(ctx, query, args...), &d)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, profileID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: profile_id=%d", profileID)

	query, args, err := sqlBuilder.Select(deckColumns...).
		From("decks").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := scanDeck(rows, &d); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: profile_id=%d, name=%s", d.ProfileID, d.Name)

	query, args, err := sqlBuilder.Insert("decks").
		Columns("profile_id", "name", "source_title", "language").
		Values(d.ProfileID, d.Name, d.SourceTitle, d.Language).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Rename(ctx context.Context, id int64, name string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("renaming deck: id=%d, name=%s", id, name)

	_, err := r.db.ExecContext(ctx, `UPDATE decks SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		log.Error("failed to rename deck: %v", err)
	}
	return err
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}

func (r *deckRepository) Summary(ctx context.Context, id int64, now time.Time) (*models.DeckSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("summarizing deck: id=%d", id)

	deck, err := r.Get(ctx, id)
	if err != nil || deck == nil {
		return nil, err
	}

	query, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN status = 'learning' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN status = 'review' THEN 1 ELSE 0 END), 0)",
		"COALESCE(SUM(CASE WHEN status = 'mastered' THEN 1 ELSE 0 END), 0)",
	).
		Column(squirrel.Expr(
			"COALESCE(SUM(CASE WHEN interval_seconds IS NULL OR datetime(last_reviewed, '+' || interval_seconds || ' seconds') <= ? THEN 1 ELSE 0 END), 0)",
			formatTimestamp(now),
		)).
		From("cards").
		Where(squirrel.Eq{"deck_id": id}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	s := models.DeckSummary{Deck: *deck}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&s.TotalCards, &s.LearningCards, &s.ReviewCards, &s.MasteredCards, &s.DueCards)
	if err != nil {
		log.Error("failed to summarize deck: %v", err)
		return nil, err
	}
	log.Debug("deck summary: total=%d, due=%d", s.TotalCards, s.DueCards)
	return &s, nil
}
