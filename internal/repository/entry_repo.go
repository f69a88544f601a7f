package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"mood-tracker/internal/domain"
)

// EntryRepository es un backend de persistencia de entradas diarias.
// Devuelve los datos tal cual estan guardados; la normalizacion vive en el EntryStore.
type EntryRepository interface {
	Get(ctx context.Context, scope, date string) (domain.DailyEntry, bool, error)
	Save(ctx context.Context, scope string, entry domain.DailyEntry) error
	List(ctx context.Context, scope string) (domain.EntryCollection, error)
}

// LocalEntriesKey es la clave del blob anonimo.
const LocalEntriesKey = "moodEntries"

// ErrCorruptBlob indica que el blob existe pero no es JSON valido.
var ErrCorruptBlob = errors.New("corrupt local entries blob")

// LocalEntryRepository guarda toda la coleccion de un scope como un unico blob JSON.
type LocalEntryRepository struct {
	blobs BlobStore
}

func NewLocalEntryRepository(blobs BlobStore) *LocalEntryRepository {
	return &LocalEntryRepository{blobs: blobs}
}

// LocalKey devuelve la clave del blob para el scope (vacio = anonimo).
func LocalKey(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return LocalEntriesKey
	}
	return LocalEntriesKey + ":" + scope
}

func (r *LocalEntryRepository) Get(ctx context.Context, scope, date string) (domain.DailyEntry, bool, error) {
	all, err := r.List(ctx, scope)
	if err != nil {
		return domain.DailyEntry{}, false, err
	}
	entry, ok := all[date]
	return entry, ok, nil
}

// List devuelve un error de parseo si el blob esta corrupto; el EntryStore lo trata como vacio.
func (r *LocalEntryRepository) List(ctx context.Context, scope string) (domain.EntryCollection, error) {
	data, ok, err := r.blobs.Get(ctx, LocalKey(scope))
	if err != nil {
		return nil, fmt.Errorf("read local entries: %w", err)
	}
	if !ok || len(data) == 0 {
		return domain.EntryCollection{}, nil
	}
	var all domain.EntryCollection
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlob, err)
	}
	if all == nil {
		all = domain.EntryCollection{}
	}
	for date, e := range all {
		if e.Date == "" {
			e.Date = date
			all[date] = e
		}
	}
	return all, nil
}

// Save hace read-modify-write del blob completo. Un blob ilegible se reemplaza.
func (r *LocalEntryRepository) Save(ctx context.Context, scope string, entry domain.DailyEntry) error {
	all, err := r.List(ctx, scope)
	if errors.Is(err, ErrCorruptBlob) {
		all = domain.EntryCollection{}
	} else if err != nil {
		return err
	}
	all[entry.Date] = entry

	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("marshal local entries: %w", err)
	}
	if err := r.blobs.Set(ctx, LocalKey(scope), data); err != nil {
		return fmt.Errorf("write local entries: %w", err)
	}
	return nil
}
