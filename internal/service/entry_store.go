package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mood-tracker/internal/domain"
	"mood-tracker/internal/repository"
)

// SaveError informa una escritura fallida; el caller debe avisar al usuario.
type SaveError struct {
	Backend string
	Date    string
	Err     error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save entry %s to %s backend: %v", e.Date, e.Backend, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

const (
	backendLocal  = "local"
	backendRemote = "remote"
)

// EntryStore es el unico punto de lectura/escritura de entradas.
// El backend remoto se decide al construir (nil = no configurado); por llamada solo importa si hay scope.
type EntryStore struct {
	local      repository.EntryRepository
	remote     repository.EntryRepository
	thresholds MoodThresholds
	logger     *zap.Logger
}

func NewEntryStore(
	local repository.EntryRepository,
	remote repository.EntryRepository,
	thresholds MoodThresholds,
	logger *zap.Logger,
) *EntryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryStore{
		local:      local,
		remote:     remote,
		thresholds: thresholds,
		logger:     logger,
	}
}

func (s *EntryStore) useRemote(scope string) bool {
	return s.remote != nil && strings.TrimSpace(scope) != ""
}

// GetEntry nunca falla: ante errores o ausencia devuelve una entrada por defecto.
func (s *EntryStore) GetEntry(ctx context.Context, date, scope string) domain.DailyEntry {
	if s.useRemote(scope) {
		entry, ok, err := s.remote.Get(ctx, scope, date)
		if err != nil {
			s.logger.Warn("remote entry read failed", zap.Error(err), zap.String("date", date))
		} else if ok {
			entry.Date = date
			return CompleteEntry(entry)
		}
	}

	if s.local != nil {
		entry, ok, err := s.local.Get(ctx, scope, date)
		if err != nil {
			s.logger.Warn("local entry read failed", zap.Error(err), zap.String("date", date))
		} else if ok {
			entry.Date = date
			return CompleteEntry(entry)
		}
	}

	return NewDailyEntry(date)
}

// SaveEntry normaliza y escribe en el backend activo del scope.
func (s *EntryStore) SaveEntry(ctx context.Context, entry domain.DailyEntry, scope string) error {
	backend, repo := backendLocal, s.local
	if s.useRemote(scope) {
		backend, repo = backendRemote, s.remote
	}
	if !domain.ValidDate(entry.Date) {
		return &SaveError{Backend: backend, Date: entry.Date, Err: ErrInvalidDate}
	}
	completed := CompleteEntry(entry)

	if repo == nil {
		return &SaveError{Backend: backend, Date: entry.Date, Err: fmt.Errorf("backend not configured")}
	}

	if err := repo.Save(ctx, scope, completed); err != nil {
		s.logger.Error("entry save failed", zap.Error(err), zap.String("backend", backend), zap.String("date", entry.Date))
		return &SaveError{Backend: backend, Date: entry.Date, Err: err}
	}
	return nil
}

// GetAllEntries aplica las mismas reglas que GetEntry a toda la coleccion.
func (s *EntryStore) GetAllEntries(ctx context.Context, scope string) domain.EntryCollection {
	out := domain.EntryCollection{}

	var (
		raw domain.EntryCollection
		err error
	)
	switch {
	case s.useRemote(scope):
		raw, err = s.remote.List(ctx, scope)
		if err != nil {
			s.logger.Warn("remote entries list failed", zap.Error(err))
		}
		if err != nil || len(raw) == 0 {
			raw = s.listLocal(ctx, scope)
		}
	default:
		raw = s.listLocal(ctx, scope)
	}

	for date, entry := range raw {
		if !domain.ValidDate(date) {
			s.logger.Warn("skipping entry with invalid date key", zap.String("date", date))
			continue
		}
		entry.Date = date
		out[date] = CompleteEntry(entry)
	}
	return out
}

func (s *EntryStore) listLocal(ctx context.Context, scope string) domain.EntryCollection {
	if s.local == nil {
		return nil
	}
	raw, err := s.local.List(ctx, scope)
	if err != nil {
		s.logger.Warn("local entries list failed", zap.Error(err))
		return nil
	}
	return raw
}

// SetAnswer es el flujo de edicion: lee, cambia un slot, recalcula y persiste.
// Devuelve la entrada actualizada aun si la escritura falla, junto con el *SaveError.
func (s *EntryStore) SetAnswer(ctx context.Context, date, scope string, theme domain.Theme, slot int, answer domain.Answer) (domain.DailyEntry, domain.CalculatedMood, error) {
	if !domain.ValidDate(date) {
		return domain.DailyEntry{}, domain.CalculatedMood{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	entry := s.GetEntry(ctx, date, scope)
	updated, err := SetAnswer(entry, theme, slot, answer)
	if err != nil {
		return entry, s.Evaluate(entry), err
	}
	mood := s.Evaluate(updated)
	if err := s.SaveEntry(ctx, updated, scope); err != nil {
		return updated, mood, err
	}
	return updated, mood, nil
}

// SetMood guarda la etiqueta libre heredada; no participa del scoring.
func (s *EntryStore) SetMood(ctx context.Context, date, scope string, mood *string) (domain.DailyEntry, error) {
	if !domain.ValidDate(date) {
		return domain.DailyEntry{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	entry := s.GetEntry(ctx, date, scope)
	if mood != nil && strings.TrimSpace(*mood) == "" {
		mood = nil
	}
	entry.Mood = mood
	return entry, s.SaveEntry(ctx, entry, scope)
}

// Evaluate calcula la categoria con los umbrales configurados.
func (s *EntryStore) Evaluate(entry domain.DailyEntry) domain.CalculatedMood {
	return DeriveOverallMood(entry.Scores, s.thresholds)
}
