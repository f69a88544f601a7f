package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"mood-tracker/internal/domain"
	"mood-tracker/internal/sheets"
)

// ExportError es una falla de export con categoria distinguible por maquina.
type ExportError struct {
	Category sheets.Category
	Message  string
	Err      error
}

func (e *ExportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("export %s: %s", e.Category, e.Message)
	}
	return fmt.Sprintf("export %s: %s: %v", e.Category, e.Message, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ExportResult resume lo escrito; con error parcial conserva los conteos alcanzados.
type ExportResult struct {
	RowsUpdated   int    `json:"rows_updated"`
	RowsAppended  int    `json:"rows_appended"`
	HeaderWritten bool   `json:"header_written"`
	UpToDate      bool   `json:"up_to_date"`
	Message       string `json:"message"`
}

// ExportHeader es la cabecera esperada: Date + una columna por tema en orden fijo.
func ExportHeader() []string {
	header := make([]string, 0, len(domain.Themes)+1)
	header = append(header, "Date")
	for _, theme := range domain.Themes {
		header = append(header, theme.Label())
	}
	return header
}

// BuildExportRows arma una fila por entrada, ordenadas por fecha.
func BuildExportRows(entries domain.EntryCollection) [][]any {
	rows := make([][]any, 0, len(entries))
	for _, entry := range entries.Sorted() {
		row := make([]any, 0, len(domain.Themes)+1)
		row = append(row, entry.Date)
		scores := entry.Scores
		if scores == nil {
			scores = DeriveAllThemeTotals(entry.DetailedScores)
		}
		for _, theme := range domain.Themes {
			row = append(row, scores[theme])
		}
		rows = append(rows, row)
	}
	return rows
}

// ValidateExportRows rechaza filas mal formadas antes de cualquier I/O.
func ValidateExportRows(rows [][]any) error {
	width := len(domain.Themes) + 1
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return fmt.Errorf("row %d: expected %d columns, got %d", i, width, len(row))
		}
		date, ok := row[0].(string)
		if !ok || !domain.ValidDate(date) {
			return fmt.Errorf("row %d: invalid date %v", i, row[0])
		}
		if _, dup := seen[date]; dup {
			return fmt.Errorf("row %d: duplicate date %s", i, date)
		}
		seen[date] = struct{}{}
		for j, cell := range row[1:] {
			v, ok := cell.(float64)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d column %s: invalid score %v", i, domain.Themes[j].Label(), cell)
			}
		}
	}
	return nil
}

// ExportService reconcilia el historial local contra una tabla remota (upsert por fecha).
type ExportService struct {
	table    sheets.Table
	setupErr error
	logger   *zap.Logger
}

func NewExportService(table sheets.Table, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{table: table, logger: logger}
}

// NewUnavailableExportService representa un destino pedido que no se pudo inicializar.
// Cada Export devuelve ese error con su categoria para que el usuario sepa que corregir.
func NewUnavailableExportService(setupErr error, logger *zap.Logger) *ExportService {
	svc := NewExportService(nil, logger)
	svc.setupErr = setupErr
	return svc
}

// Export escribe cabecera si la tabla esta vacia, actualiza filas cambiadas y agrega fechas nuevas.
// Correrlo dos veces seguidas sin cambios locales no escribe nada la segunda vez.
func (s *ExportService) Export(ctx context.Context, entries domain.EntryCollection) (ExportResult, error) {
	var result ExportResult
	if s.setupErr != nil {
		return result, &ExportError{Category: sheets.CategoryOf(s.setupErr), Message: "export target unavailable", Err: s.setupErr}
	}
	if s.table == nil {
		return result, &ExportError{Category: sheets.CategoryConfiguration, Message: "export target not configured"}
	}

	header := ExportHeader()
	rows := BuildExportRows(entries)
	if err := ValidateExportRows(rows); err != nil {
		return result, &ExportError{Category: sheets.CategoryValidation, Message: "invalid export data", Err: err}
	}

	existing, err := s.table.ReadRows(ctx)
	if err != nil {
		return result, wrapTableError("could not read target table", err)
	}

	if isEmptyTable(existing) {
		batch := make([][]any, 0, len(rows)+1)
		batch = append(batch, stringsToCells(header))
		batch = append(batch, rows...)
		if err := s.table.AppendRows(ctx, batch); err != nil {
			return result, wrapTableError("could not write header and rows", err)
		}
		result.HeaderWritten = true
		result.RowsAppended = len(rows)
		result.Message = fmt.Sprintf("header written, %d rows appended", len(rows))
		s.logger.Info("export finished", zap.Int("rows_appended", result.RowsAppended), zap.Bool("header_written", true))
		return result, nil
	}

	if !sameHeader(existing[0], header) {
		return result, &ExportError{
			Category: sheets.CategoryHeaderMismatch,
			Message: fmt.Sprintf("target header [%s] does not match expected [%s]",
				strings.Join(existing[0], ", "), strings.Join(header, ", ")),
		}
	}

	positions := make(map[string]int, len(existing))
	for i, row := range existing[1:] {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		date := strings.TrimSpace(row[0])
		if _, dup := positions[date]; !dup {
			positions[date] = i + 2
		}
	}

	var (
		updates []sheets.RowUpdate
		appends [][]any
	)
	for _, row := range rows {
		date := row[0].(string)
		pos, ok := positions[date]
		if !ok {
			appends = append(appends, row)
			continue
		}
		if !sameRow(existing[pos-1], row) {
			updates = append(updates, sheets.RowUpdate{Row: pos, Values: row})
		}
	}

	if len(updates) == 0 && len(appends) == 0 {
		result.UpToDate = true
		result.Message = "target already up to date, nothing to write"
		s.logger.Info("export up to date", zap.Int("rows", len(rows)))
		return result, nil
	}

	if len(updates) > 0 {
		if err := s.table.UpdateRows(ctx, updates); err != nil {
			return result, wrapTableError("could not update existing rows", err)
		}
		result.RowsUpdated = len(updates)
	}
	if len(appends) > 0 {
		if err := s.table.AppendRows(ctx, appends); err != nil {
			result.Message = fmt.Sprintf("%d rows updated before append failed", result.RowsUpdated)
			return result, wrapTableError("could not append new rows", err)
		}
		result.RowsAppended = len(appends)
	}

	result.Message = fmt.Sprintf("%d rows updated, %d rows appended", result.RowsUpdated, result.RowsAppended)
	s.logger.Info("export finished",
		zap.Int("rows_updated", result.RowsUpdated),
		zap.Int("rows_appended", result.RowsAppended),
	)
	return result, nil
}

func wrapTableError(msg string, err error) error {
	var ee *ExportError
	if errors.As(err, &ee) {
		return ee
	}
	return &ExportError{Category: sheets.CategoryOf(err), Message: msg, Err: err}
}

func isEmptyTable(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return false
			}
		}
	}
	return true
}

func sameHeader(got, want []string) bool {
	got = trimTrailingEmpty(got)
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func sameRow(existing []string, row []any) bool {
	existing = trimTrailingEmpty(existing)
	if len(existing) != len(row) {
		return false
	}
	for i, cell := range row {
		if !sheets.SameValue(strings.TrimSpace(existing[i]), sheets.FormatCell(cell)) {
			return false
		}
	}
	return true
}

func trimTrailingEmpty(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	return row[:end]
}

func stringsToCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
