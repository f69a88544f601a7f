package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXTable implementa Table sobre una pestania de un libro .xlsx local.
// Cada operacion abre y cierra el archivo.
type XLSXTable struct {
	path string
	tab  string
}

func NewXLSXTable(path, tab string) (*XLSXTable, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &Error{Category: CategoryConfiguration, Op: "xlsx init", Err: errors.New("workbook path is required")}
	}
	if strings.TrimSpace(tab) == "" {
		tab = DefaultTab
	}
	return &XLSXTable{path: path, tab: tab}, nil
}

func (t *XLSXTable) ReadRows(_ context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyFileError("read rows", err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(t.tab)
	if err != nil || idx < 0 {
		return nil, nil
	}
	rows, err := f.GetRows(t.tab)
	if err != nil {
		return nil, classifyFileError("read rows", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows, nil
}

func (t *XLSXTable) UpdateRows(_ context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return t.withWorkbook("update rows", func(f *excelize.File) error {
		for _, u := range updates {
			if err := setRow(f, t.tab, u.Row, u.Values); err != nil {
				return err
			}
		}
		return nil
	})
}

func (t *XLSXTable) AppendRows(_ context.Context, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	return t.withWorkbook("append rows", func(f *excelize.File) error {
		existing, err := f.GetRows(t.tab)
		if err != nil {
			return err
		}
		next := len(existing) + 1
		for i, row := range rows {
			if err := setRow(f, t.tab, next+i, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// withWorkbook abre (o crea) el libro, asegura la pestania, aplica fn y guarda.
func (t *XLSXTable) withWorkbook(op string, fn func(f *excelize.File) error) error {
	f, err := excelize.OpenFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		f = excelize.NewFile()
	} else if err != nil {
		return classifyFileError(op, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(t.tab)
	if err != nil || idx < 0 {
		if _, err := f.NewSheet(t.tab); err != nil {
			return &Error{Category: CategoryValidation, Op: op, Err: err}
		}
	}
	if err := fn(f); err != nil {
		return &Error{Category: CategoryTransient, Op: op, Err: err}
	}
	if err := f.SaveAs(t.path); err != nil {
		return classifyFileError(op, err)
	}
	return nil
}

func setRow(f *excelize.File, tab string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	vals := append([]any(nil), values...)
	return f.SetSheetRow(tab, cell, &vals)
}

func classifyFileError(op string, err error) error {
	if errors.Is(err, os.ErrPermission) {
		return &Error{Category: CategoryPermission, Op: op, Err: err}
	}
	return &Error{Category: CategoryTransient, Op: op, Err: err}
}
