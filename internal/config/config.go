package config

import (
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Backend remoto: sin DATABASE_URL todo se guarda en el backend local.
	DatabaseURL   string `env:"DATABASE_URL"`
	LocalStoreDir string `env:"LOCAL_STORE_DIR" envDefault:"./data"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	LLMAPIKey   string `env:"LLM_API_KEY"`
	LLMBaseURL  string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	InsightsURL string `env:"INSIGHTS_URL"`

	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	SheetsSpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	SheetsTab             string `env:"SHEETS_TAB" envDefault:"Sheet1"`
	GoogleCredentialsJSON string `env:"GOOGLE_APPLICATION_CREDENTIALS_JSON"`
	GoogleCredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	ExportXLSXPath        string `env:"EXPORT_XLSX_PATH"`

	MoodBadThreshold  float64 `env:"MOOD_BAD_THRESHOLD" envDefault:"-0.75"`
	MoodGoodThreshold float64 `env:"MOOD_GOOD_THRESHOLD" envDefault:"0.75"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.SheetsTab) == "" {
		cfg.SheetsTab = "Sheet1"
	}
	return &cfg, nil
}

// RemoteEnabled indica si hay document store remoto configurado.
func (c *Config) RemoteEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

// SheetsRequested indica que el export debe ir a Google Sheets. Las credenciales se
// validan al crear el cliente para poder reportar que falta.
func (c *Config) SheetsRequested() bool {
	return strings.TrimSpace(c.SheetsSpreadsheetID) != ""
}
