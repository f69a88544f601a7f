package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"mood-tracker/internal/domain"
)

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgEntryRepository es el backend remoto: un documento jsonb por (scope, fecha).
type PgEntryRepository struct {
	pool pgxQuerier
}

func NewPgEntryRepository(pool *pgxpool.Pool) *PgEntryRepository {
	return &PgEntryRepository{pool: pool}
}

func (r *PgEntryRepository) Get(ctx context.Context, scope, date string) (domain.DailyEntry, bool, error) {
	const query = `
		SELECT document
		FROM daily_entries
		WHERE scope = $1 AND entry_date = $2
	`
	var doc []byte
	err := r.pool.QueryRow(ctx, query, scope, date).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DailyEntry{}, false, nil
	}
	if err != nil {
		return domain.DailyEntry{}, false, err
	}
	entry, err := decodeEntryDocument(doc, date)
	if err != nil {
		return domain.DailyEntry{}, false, err
	}
	return entry, true, nil
}

// Save hace upsert del documento; solo el duenio del scope escribe su fila.
func (r *PgEntryRepository) Save(ctx context.Context, scope string, entry domain.DailyEntry) error {
	const query = `
		INSERT INTO daily_entries (id, scope, entry_date, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (scope, entry_date)
		DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`
	doc, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry document: %w", err)
	}
	_, err = r.pool.Exec(ctx, query,
		uuid.NewString(),
		scope,
		entry.Date,
		doc,
		time.Now().UTC(),
	)
	return err
}

func (r *PgEntryRepository) List(ctx context.Context, scope string) (domain.EntryCollection, error) {
	const query = `
		SELECT entry_date, document
		FROM daily_entries
		WHERE scope = $1
		ORDER BY entry_date ASC
	`
	rows, err := r.pool.Query(ctx, query, scope)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := domain.EntryCollection{}
	for rows.Next() {
		var (
			date string
			doc  []byte
		)
		if err := rows.Scan(&date, &doc); err != nil {
			return nil, err
		}
		entry, err := decodeEntryDocument(doc, date)
		if err != nil {
			// Un documento roto no debe ocultar el resto del historial.
			continue
		}
		all[date] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

func decodeEntryDocument(doc []byte, date string) (domain.DailyEntry, error) {
	var entry domain.DailyEntry
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &entry); err != nil {
			return domain.DailyEntry{}, fmt.Errorf("decode entry %s: %w", date, err)
		}
	}
	entry.Date = date
	return entry, nil
}
