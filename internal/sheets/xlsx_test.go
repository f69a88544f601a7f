package sheets

import (
	"context"
	"path/filepath"
	"testing"
)

func TestXLSXTable_MissingFileReadsEmpty(t *testing.T) {
	table, err := NewXLSXTable(filepath.Join(t.TempDir(), "mood.xlsx"), "")
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	rows, err := table.ReadRows(context.Background())
	if err != nil || rows != nil {
		t.Fatalf("expected empty table, rows=%v err=%v", rows, err)
	}
}

func TestXLSXTable_AppendAndUpdate(t *testing.T) {
	ctx := context.Background()
	table, err := NewXLSXTable(filepath.Join(t.TempDir(), "mood.xlsx"), "Mood")
	if err != nil {
		t.Fatalf("new table: %v", err)
	}

	if err := table.AppendRows(ctx, [][]any{
		{"Date", "Sleep"},
		{"2024-03-01", 0.25},
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := table.AppendRows(ctx, [][]any{{"2024-03-02", -0.5}}); err != nil {
		t.Fatalf("second append: %v", err)
	}
	if err := table.UpdateRows(ctx, []RowUpdate{{Row: 2, Values: []any{"2024-03-01", 1.0}}}); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, err := table.ReadRows(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %v", rows)
	}
	if rows[0][0] != "Date" || rows[2][0] != "2024-03-02" {
		t.Fatalf("unexpected order: %v", rows)
	}
	if !SameValue(rows[1][1], "1") || !SameValue(rows[2][1], "-0.5") {
		t.Fatalf("unexpected values: %v", rows)
	}
}

func TestNewXLSXTable_RequiresPath(t *testing.T) {
	_, err := NewXLSXTable(" ", "")
	if CategoryOf(err) != CategoryConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
