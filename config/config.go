// Package config resolves runtime settings for deepsearch from a .env file,
// DEEPSEARCH_* environment variables and the YAML extraction rules file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every path and knob the services need. Relative file names are
// resolved against DataDir with Path.
type Config struct {
	DataDir      string
	SchedulesDir string
	DocumentsDir string

	NotesSource      string
	NotesOutput      string
	ScheduleOutput   string
	QuickBooksOutput string
	QuickBooksDB     string
	ScheduleDB       string
	ScheduleMetadata string

	// SQLiteSources lists database files whose tables are loaded as datasets.
	SQLiteSources []string

	RulesFile      string
	Rules          Rules
	Port           int
	FuzzyThreshold int
	Debug          bool
	PDFLicenseKey  string
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		DataDir:          ".",
		SchedulesDir:     "exported_sheets_actual",
		DocumentsDir:     "documents",
		NotesSource:      "GKeep (Simple).csv",
		NotesOutput:      "GKeep_Structured.csv",
		ScheduleOutput:   "consolidated_schedules.csv",
		QuickBooksOutput: "consolidated_quickbooks.csv",
		QuickBooksDB:     "quickbooks.db",
		ScheduleDB:       "schedules.db",
		ScheduleMetadata: "schedule_db_metadata.json",
		RulesFile:        "extraction_rules.yaml",
		Rules:            DefaultRules(),
		Port:             8080,
		FuzzyThreshold:   70,
	}
}

// Load reads .env (if present), applies environment overrides and loads the
// extraction rules.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.LoadRules(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString("DEEPSEARCH_DATA_DIR", &c.DataDir)
	setString("DEEPSEARCH_SCHEDULES_DIR", &c.SchedulesDir)
	setString("DEEPSEARCH_DOCUMENTS_DIR", &c.DocumentsDir)
	setString("DEEPSEARCH_RULES_FILE", &c.RulesFile)
	setString("UNIDOC_LICENSE_KEY", &c.PDFLicenseKey)

	if v := os.Getenv("DEEPSEARCH_SQLITE_SOURCES"); v != "" {
		c.SQLiteSources = splitList(v)
	}
	if v := os.Getenv("DEEPSEARCH_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEEPSEARCH_PORT %q: %w", v, err)
		}
		c.Port = n
	}
	if v := os.Getenv("DEEPSEARCH_FUZZY_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			return fmt.Errorf("invalid DEEPSEARCH_FUZZY_THRESHOLD %q: must be 0-100", v)
		}
		c.FuzzyThreshold = n
	}
	if v := os.Getenv("DEEPSEARCH_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEEPSEARCH_DEBUG %q: %w", v, err)
		}
		c.Debug = b
	}
	return nil
}

// Path resolves name against the data directory unless it is already absolute.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
