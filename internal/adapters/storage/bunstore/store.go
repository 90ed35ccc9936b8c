package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/uptrace/bun"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
)

const quoteEntity = "quote"

// QuoteModel maps the quotes table.
type QuoteModel struct {
	bun.BaseModel `bun:"table:quotes,alias:q"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Text   string `bun:"text,notnull"`
	Author string `bun:"author,notnull"`
}

func (m *QuoteModel) toDomain() *domain.Quote {
	return &domain.Quote{ID: m.ID, Text: m.Text, Author: m.Author}
}

// Store is a bun-backed ports.QuoteStore.
type Store struct {
	db *bun.DB
}

// New wraps an open bun database. The schema must already be migrated.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for migrations and shutdown.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a quote and returns it with the id the database assigned.
func (s *Store) Create(ctx context.Context, draft domain.QuoteDraft) (*domain.Quote, error) {
	n := draft.Normalize()
	row := &QuoteModel{Text: n.Text, Author: n.Author}

	if _, err := s.db.NewInsert().
		Model(row).
		Column("text", "author").
		Returning("id").
		Exec(ctx); err != nil {
		return nil, mapError("create", "", err)
	}

	return row.toDomain(), nil
}

// Get returns a quote by id.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	row := new(QuoteModel)

	if err := s.db.NewSelect().Model(row).Where("q.id = ?", id).Scan(ctx); err != nil {
		return nil, mapError("get", idString(id), err)
	}

	return row.toDomain(), nil
}

// List returns a page of quotes in ascending id order.
func (s *Store) List(ctx context.Context, offset, limit int) ([]domain.Quote, error) {
	var rows []QuoteModel

	if err := s.db.NewSelect().
		Model(&rows).
		OrderExpr("q.id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, mapError("list", "", err)
	}

	quotes := make([]domain.Quote, 0, len(rows))
	for i := range rows {
		quotes = append(quotes, *rows[i].toDomain())
	}

	return quotes, nil
}

// Count returns the number of stored quotes.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.db.NewSelect().Model((*QuoteModel)(nil)).Count(ctx)
	if err != nil {
		return 0, mapError("count", "", err)
	}

	return n, nil
}

// Update applies a patch inside a transaction so the read and the write see
// the same row.
func (s *Store) Update(ctx context.Context, id int64, patch domain.QuotePatch) (*domain.Quote, error) {
	var updated *domain.Quote

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		row := new(QuoteModel)
		if err := tx.NewSelect().Model(row).Where("q.id = ?", id).Scan(ctx); err != nil {
			return err
		}

		q := patch.Apply(*row.toDomain())
		row.Text, row.Author = q.Text, q.Author

		if _, err := tx.NewUpdate().
			Model(row).
			Column("text", "author").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}

		updated = &q

		return nil
	})
	if err != nil {
		return nil, mapError("update", idString(id), err)
	}

	return updated, nil
}

// Delete removes a quote by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*QuoteModel)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return mapError("delete", idString(id), err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return mapError("delete", idString(id), err)
	}

	if affected == 0 {
		return domain.NewNotFoundError(quoteEntity, idString(id))
	}

	return nil
}

// Exists reports whether an identical quote is already stored.
func (s *Store) Exists(ctx context.Context, text, author string) (bool, error) {
	ok, err := s.db.NewSelect().
		Model((*QuoteModel)(nil)).
		Where("q.text = ?", text).
		Where("q.author = ?", author).
		Exists(ctx)
	if err != nil {
		return false, mapError("exists", "", err)
	}

	return ok, nil
}

// mapError translates driver errors into domain errors.
func mapError(op, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(quoteEntity, id)
	}

	return domain.NewStoreError(op, err)
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
