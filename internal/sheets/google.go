package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// DefaultTab es la pestania usada cuando no se configura ninguna.
const DefaultTab = "Sheet1"

type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error)
	BatchUpdate(ctx context.Context, spreadsheetID string, data []*gsheets.ValueRange) error
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
}

// GoogleTable implementa Table sobre una pestania de Google Sheets.
type GoogleTable struct {
	api           valuesAPI
	spreadsheetID string
	tab           string
}

// GoogleCredentials indica de donde leer la cuenta de servicio: JSON inline o ruta a archivo.
type GoogleCredentials struct {
	JSON string
	File string
}

// ClientOptions arma las opciones del cliente; nil si no hay credenciales.
func (c GoogleCredentials) ClientOptions() []option.ClientOption {
	creds := strings.TrimSpace(c.JSON)
	if creds == "" {
		creds = strings.TrimSpace(c.File)
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// NewGoogleTable valida la configuracion y crea el cliente de Sheets.
func NewGoogleTable(ctx context.Context, spreadsheetID, tab string, creds GoogleCredentials) (*GoogleTable, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, &Error{Category: CategoryConfiguration, Op: "sheets init", Err: errors.New("spreadsheet id is required")}
	}
	opts := creds.ClientOptions()
	if len(opts) == 0 {
		return nil, &Error{Category: CategoryConfiguration, Op: "sheets init", Err: errors.New("google credentials are required")}
	}
	opts = append(opts, option.WithScopes(gsheets.SpreadsheetsScope))

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &Error{Category: CategoryAuth, Op: "sheets init", Err: err}
	}
	return newGoogleTable(&serviceValuesAPI{svc: svc}, spreadsheetID, tab), nil
}

func newGoogleTable(api valuesAPI, spreadsheetID, tab string) *GoogleTable {
	if strings.TrimSpace(tab) == "" {
		tab = DefaultTab
	}
	return &GoogleTable{api: api, spreadsheetID: spreadsheetID, tab: tab}
}

func (t *GoogleTable) ReadRows(ctx context.Context) ([][]string, error) {
	values, err := t.api.Get(ctx, t.spreadsheetID, t.quotedTab())
	if err != nil {
		return nil, classifyGoogleError("read rows", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatCell(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (t *GoogleTable) UpdateRows(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	data := make([]*gsheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &gsheets.ValueRange{
			Range:  fmt.Sprintf("%s!A%d", t.quotedTab(), u.Row),
			Values: [][]any{u.Values},
		})
	}
	if err := t.api.BatchUpdate(ctx, t.spreadsheetID, data); err != nil {
		return classifyGoogleError("update rows", err)
	}
	return nil
}

func (t *GoogleTable) AppendRows(ctx context.Context, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	if err := t.api.Append(ctx, t.spreadsheetID, t.quotedTab()+"!A1", rows); err != nil {
		return classifyGoogleError("append rows", err)
	}
	return nil
}

func (t *GoogleTable) quotedTab() string {
	return "'" + strings.ReplaceAll(t.tab, "'", "''") + "'"
}

// classifyGoogleError traduce los codigos HTTP de la API a categorias.
func classifyGoogleError(op string, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &Error{Category: CategoryTransient, Op: op, Err: err}
	}
	category := CategoryTransient
	switch gerr.Code {
	case http.StatusUnauthorized:
		category = CategoryAuth
	case http.StatusForbidden:
		category = CategoryPermission
	case http.StatusNotFound:
		category = CategoryNotFound
	case http.StatusBadRequest:
		// Una pestania inexistente llega como 400 "Unable to parse range".
		if strings.Contains(strings.ToLower(gerr.Message), "unable to parse range") {
			category = CategoryNotFound
		} else {
			category = CategoryValidation
		}
	}
	return &Error{Category: category, Op: op, Err: err}
}

type serviceValuesAPI struct {
	svc *gsheets.Service
}

func (a *serviceValuesAPI) Get(ctx context.Context, spreadsheetID, rng string) ([][]any, error) {
	resp, err := a.svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (a *serviceValuesAPI) BatchUpdate(ctx context.Context, spreadsheetID string, data []*gsheets.ValueRange) error {
	req := &gsheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	_, err := a.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (a *serviceValuesAPI) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
