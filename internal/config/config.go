package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "futuredecide.db"
)

type Keymap struct {
	Quit           string `toml:"quit"`
	NextMode       string `toml:"next_mode"`
	PrevMode       string `toml:"prev_mode"`
	Up             string `toml:"up"`
	Down           string `toml:"down"`
	Pick           string `toml:"pick"`
	Add            string `toml:"add"`
	Delete         string `toml:"delete"`
	Undo           string `toml:"undo"`
	Reset          string `toml:"reset"`
	NoReplacement  string `toml:"no_replacement"`
	FocusUsed      string `toml:"focus_used"`
	EditRange      string `toml:"edit_range"`
	QuickRange     string `toml:"quick_range"`
	Import         string `toml:"import"`
	Export         string `toml:"export"`
	CopyExport     string `toml:"copy_export"`
	Theme          string `toml:"theme"`
	Help           string `toml:"help"`
	Confirm        string `toml:"confirm"`
	Cancel         string `toml:"cancel"`
	SubmitImport   string `toml:"submit_import"`
	PasteClipboard string `toml:"paste_clipboard"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type UIConfig struct {
	ExportDir           string `toml:"export_dir"`
	TaskShuffleMS       int    `toml:"task_shuffle_ms"`
	PunishmentShuffleMS int    `toml:"punishment_shuffle_ms"`
	SpinFrameMS         int    `toml:"spin_frame_ms"`
}

type Config struct {
	DBPath  string        `toml:"db_path"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Keys    Keymap        `toml:"keys"`
}

// envOverrides are applied on top of the file.
type envOverrides struct {
	DBPath   string `env:"DECIDE_DB_PATH"`
	LogLevel string `env:"DECIDE_LOG_LEVEL"`
	LogFile  string `env:"DECIDE_LOG_FILE"`
}

// LoadOrCreate reads path over defaults, writing defaults out when the file
// does not exist yet.
func LoadOrCreate(path string, defaults Config) (Config, error) {
	cfg := defaults
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := EnsureConfigDir(path); err != nil {
			return cfg, err
		}
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		if err := ApplyEnv(&cfg); err != nil {
			return cfg, err
		}
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode toml: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaults.DBPath
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv exports variables from the given .env files that exist. Variables
// already set in the process environment win.
func LoadDotEnv(paths ...string) error {
	var present []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// ApplyEnv overlays DECIDE_* environment variables.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if v := strings.TrimSpace(o.DBPath); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		cfg.Logging.File = v
	}
	return nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.UI.TaskShuffleMS < 0 || c.UI.PunishmentShuffleMS < 0 {
		return errors.New("ui shuffle delays must be >= 0")
	}
	if c.UI.SpinFrameMS <= 0 {
		return errors.New("ui.spin_frame_ms must be > 0")
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default(dbPath string) Config {
	if strings.TrimSpace(dbPath) == "" {
		dbPath = DefaultDBName
	}
	return Config{
		DBPath: dbPath,
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			ExportDir:           ".",
			TaskShuffleMS:       500,
			PunishmentShuffleMS: 600,
			SpinFrameMS:         16,
		},
		Keys: Keymap{
			Quit:           "q",
			NextMode:       "tab",
			PrevMode:       "shift+tab",
			Up:             "k",
			Down:           "j",
			Pick:           "enter",
			Add:            "a",
			Delete:         "d",
			Undo:           "u",
			Reset:          "R",
			NoReplacement:  "n",
			FocusUsed:      "f",
			EditRange:      "e",
			QuickRange:     "p",
			Import:         "i",
			Export:         "o",
			CopyExport:     "y",
			Theme:          "t",
			Help:           "?",
			Confirm:        "enter",
			Cancel:         "esc",
			SubmitImport:   "ctrl+s",
			PasteClipboard: "ctrl+v",
		},
	}
}
