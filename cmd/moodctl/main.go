package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mood-tracker/internal/app"
	"mood-tracker/internal/config"
	"mood-tracker/internal/domain"
	"mood-tracker/internal/logger"
	"mood-tracker/internal/service"
)

const usage = `usage: moodctl <command> [flags]

commands:
  export    [-scope id]               sube el historial al destino de export configurado
  insights  [-scope id]               pide insights sobre el historial
  show      [-scope id] [-date d]     muestra una entrada o el historial completo
  token     [-id id] [-email e]       emite un par de tokens para un scope remoto
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("app init", zap.Error(err))
	}
	defer a.Close()

	if err := run(ctx, os.Args[1:], a, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, a *app.App, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "export":
		return runExport(ctx, rest, a, out)
	case "insights":
		return runInsights(ctx, rest, a, out)
	case "show":
		return runShow(ctx, rest, a, out)
	case "token":
		return runToken(rest, a, out)
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runExport(ctx context.Context, args []string, a *app.App, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	scope := fs.String("scope", "", "scope remoto (vacio = anonimo)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.Exporter == nil {
		return errors.New("no export target configured (set SHEETS_SPREADSHEET_ID or EXPORT_XLSX_PATH)")
	}
	res, err := a.Exporter.Export(ctx, a.Store.GetAllEntries(ctx, *scope))
	if err != nil {
		var exportErr *service.ExportError
		if errors.As(err, &exportErr) {
			fmt.Fprintf(out, "category=%s retryable=%t updated=%d appended=%d\n",
				exportErr.Category, exportErr.Category.Retryable(), res.RowsUpdated, res.RowsAppended)
		}
		return err
	}
	fmt.Fprintln(out, res.Message)
	return nil
}

func runInsights(ctx context.Context, args []string, a *app.App, out io.Writer) error {
	fs := flag.NewFlagSet("insights", flag.ContinueOnError)
	scope := fs.String("scope", "", "scope remoto (vacio = anonimo)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text, err := a.Insights.Generate(ctx, *scope)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientData) {
			fmt.Fprintf(out, "need at least %d days of entries\n", service.MinInsightDays)
		}
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}

func runShow(ctx context.Context, args []string, a *app.App, out io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	scope := fs.String("scope", "", "scope remoto (vacio = anonimo)")
	date := fs.String("date", "", "fecha YYYY-MM-DD (vacio = todas)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if strings.TrimSpace(*date) != "" {
		if !domain.ValidDate(*date) {
			return fmt.Errorf("invalid date %q", *date)
		}
		entry := a.Store.GetEntry(ctx, *date, *scope)
		return enc.Encode(map[string]any{"entry": entry, "mood": a.Store.Evaluate(entry)})
	}

	for _, entry := range a.Store.GetAllEntries(ctx, *scope).Sorted() {
		mood := a.Store.Evaluate(entry)
		fmt.Fprintf(out, "%s  %-7s avg=%5.2f", entry.Date, mood.Category, mood.Average)
		for _, theme := range domain.Themes {
			fmt.Fprintf(out, "  %s=%.2f", theme, entry.Scores[theme])
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runToken(args []string, a *app.App, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	id := fs.String("id", "", "id del scope (vacio = uuid nuevo)")
	email := fs.String("email", "", "email opcional")
	name := fs.String("name", "", "nombre visible opcional")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !a.JWT.Enabled() {
		return errors.New("JWT_SECRET is not configured")
	}
	identity := domain.Identity{
		ID:          strings.TrimSpace(*id),
		Email:       *email,
		DisplayName: *name,
		CreatedAt:   time.Now().UTC(),
	}
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	pair, err := a.JWT.GeneratePair(identity)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"scope": identity.ID, "tokens": pair})
}
