package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendCSV      = "csv"
	BackendSheets   = "sheets"

	DefaultPort        = 3318
	DefaultDatabaseURL = "file:poll.db"
)

// Storage selects and locates the answer store and submission guard.
type Storage struct {
	Backend         string
	DatabaseURL     string
	CSVDir          string
	SheetID         string
	CredentialsFile string
}

type Config struct {
	Port        int
	Storage     Storage
	SchemaFile  string
	SessionSalt string
	AdminKey    string
	Anonymous   bool
	CORSOrigin  string
	LogLevel    slog.Level
}

type ReportConfig struct {
	Storage    Storage
	SchemaFile string
	ShowRaw    bool
	LogLevel   slog.Level
}

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ParseFlags parses the server flags. Each flag falls back to its environment
// variable; CLI flags take precedence.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	fs := flag.NewFlagSet("poll-quiz", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.CORSOrigin, "cors-origin", "", "Allowed CORS origin")

	storageFlags(fs, &cfg.Storage)
	fs.StringVar(&cfg.SchemaFile, "schema", "", "Poll schema YAML file (default: built-in developer poll)")
	fs.BoolVar(&cfg.Anonymous, "anonymous", false, "Store answers without respondent ids")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSalt, "session-salt", "", "Respondent token salt (prefer env)")
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key for the raw export (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
	}
	if cfg.SchemaFile == "" {
		cfg.SchemaFile = os.Getenv("POLL_SCHEMA")
	}
	if !flagSet(fs, "anonymous") {
		if v := os.Getenv("ANONYMOUS"); v != "" {
			anon, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid ANONYMOUS env variable")
			}
			cfg.Anonymous = anon
		}
	}

	level, err := parseLevel(logLevel)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if err := resolveStorage(&cfg.Storage); err != nil {
		return Config{}, err
	}

	// Secrets
	if cfg.SessionSalt == "" {
		cfg.SessionSalt = os.Getenv("SESSION_SALT")
	}
	if cfg.SessionSalt == "" {
		return Config{}, errors.New("SESSION_SALT required")
	}
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}

	return cfg, nil
}

// ParseReportFlags parses the flags of the terminal report. Storage flags and
// their environment fallbacks match ParseFlags.
func ParseReportFlags(args []string) (ReportConfig, error) {
	var cfg ReportConfig
	var logLevel string

	fs := flag.NewFlagSet("pollreport", flag.ContinueOnError)
	storageFlags(fs, &cfg.Storage)
	fs.StringVar(&cfg.SchemaFile, "schema", "", "Poll schema YAML file (default: built-in developer poll)")
	fs.BoolVar(&cfg.ShowRaw, "raw", false, "Also print the raw response table")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return ReportConfig{}, err
	}

	if cfg.SchemaFile == "" {
		cfg.SchemaFile = os.Getenv("POLL_SCHEMA")
	}
	level, err := parseLevel(logLevel)
	if err != nil {
		return ReportConfig{}, err
	}
	cfg.LogLevel = level

	if err := resolveStorage(&cfg.Storage); err != nil {
		return ReportConfig{}, err
	}
	return cfg, nil
}

func storageFlags(fs *flag.FlagSet, s *Storage) {
	fs.StringVar(&s.Backend, "backend", "", "Storage backend (sqlite, postgres, csv or sheets)")
	fs.StringVar(&s.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&s.CSVDir, "csv-dir", "", "Directory holding the CSV files")
	fs.StringVar(&s.SheetID, "sheet-id", "", "Google Sheets spreadsheet id")
	fs.StringVar(&s.CredentialsFile, "credentials", "", "Service account JSON file (default: application default credentials)")
}

func resolveStorage(s *Storage) error {
	if s.Backend == "" {
		s.Backend = os.Getenv("STORAGE_BACKEND")
	}
	if s.Backend == "" {
		s.Backend = BackendSQLite
	}
	if s.DatabaseURL == "" {
		s.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if s.CSVDir == "" {
		s.CSVDir = os.Getenv("CSV_DIR")
	}
	if s.SheetID == "" {
		s.SheetID = os.Getenv("SHEET_ID")
	}
	if s.CredentialsFile == "" {
		s.CredentialsFile = os.Getenv("GOOGLE_CREDENTIALS")
	}

	switch s.Backend {
	case BackendSQLite:
		if s.DatabaseURL == "" {
			s.DatabaseURL = DefaultDatabaseURL
		}
	case BackendPostgres:
		if s.DatabaseURL == "" {
			return errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	case BackendCSV:
		if s.CSVDir == "" {
			s.CSVDir = "."
		}
	case BackendSheets:
		if s.SheetID == "" {
			return errors.New("spreadsheet id required for sheets (use -sheet-id or SHEET_ID env)")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, postgres, csv or sheets)", s.Backend)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		s = os.Getenv("LOG_LEVEL")
	}
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func flagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
