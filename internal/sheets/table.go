package sheets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Table es una hoja tabular remota o local. Las filas se numeran desde 1 (la fila 1 es la cabecera).
type Table interface {
	// ReadRows devuelve todas las filas con valores como texto; una tabla vacia devuelve nil.
	ReadRows(ctx context.Context) ([][]string, error)
	// UpdateRows sobrescribe filas completas en un solo batch.
	UpdateRows(ctx context.Context, updates []RowUpdate) error
	// AppendRows agrega filas despues de la ultima fila existente en un solo batch.
	AppendRows(ctx context.Context, rows [][]any) error
}

// RowUpdate reemplaza la fila Row (1-based) por Values.
type RowUpdate struct {
	Row    int
	Values []any
}

// Category permite distinguir fallas accionables por el usuario.
type Category string

const (
	CategoryValidation     Category = "validation"
	CategoryConfiguration  Category = "configuration"
	CategoryAuth           Category = "auth"
	CategoryPermission     Category = "permission"
	CategoryNotFound       Category = "not_found"
	CategoryHeaderMismatch Category = "header_mismatch"
	CategoryTransient      Category = "transient"
)

// Retryable es true solo para errores transitorios; los de configuracion no se reintentan.
func (c Category) Retryable() bool {
	return c == CategoryTransient
}

// Error es un error de tabla ya clasificado.
type Error struct {
	Category Category
	Op       string
	Err      error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CategoryOf devuelve la categoria de err; lo no clasificado se considera transitorio.
func CategoryOf(err error) Category {
	var te *Error
	if errors.As(err, &te) {
		return te.Category
	}
	return CategoryTransient
}

// FormatCell convierte un valor de celda al texto usado para comparar filas.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// SameValue compara dos celdas en texto, tolerando diferencias de formato numerico ("0.50" vs "0.5").
func SameValue(a, b string) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return false
	}
	return math.Abs(fa-fb) < 1e-9
}
