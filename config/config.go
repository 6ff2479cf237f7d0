package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

type Delicious struct {
	Username string `toml:"username" env:"USERNAME"`
	Password string `toml:"password" env:"PASSWORD"`
	Key      string `toml:"key" env:"KEY"`
	APIURL   string `toml:"api_url" env:"API_URL"`
	FeedsURL string `toml:"feeds_url" env:"FEEDS_URL"`
}

type Miniflux struct {
	Hostname   string `toml:"hostname" env:"HOSTNAME"`
	APIKey     string `toml:"api_key" env:"API_KEY"`
	CategoryID int64  `toml:"category_id" env:"CATEGORY_ID"`
}

type History struct {
	Driver     string `toml:"driver" env:"DRIVER"`
	PGHostname string `toml:"postgres_hostname" env:"POSTGRES_HOSTNAME"`
	PGPort     string `toml:"postgres_port" env:"POSTGRES_PORT"`
	PGDBName   string `toml:"postgres_db_name" env:"POSTGRES_DB_NAME"`
	PGUser     string `toml:"postgres_user" env:"POSTGRES_USER"`
	PGPassword string `toml:"postgres_password" env:"POSTGRES_PASSWORD"`
	SQLitePath string `toml:"sqlite_path" env:"SQLITE_PATH"`
}

type Config struct {
	Delicious  Delicious     `toml:"delicious" envPrefix:"DELICIOUS_"`
	Miniflux   Miniflux      `toml:"miniflux" envPrefix:"MINIFLUX_"`
	History    History       `toml:"history" envPrefix:"DELICIOUSCOPY_HISTORY_"`
	LogFile    string        `toml:"logfile" env:"DELICIOUSCOPY_LOGFILE"`
	Verbose    bool          `toml:"verbose" env:"DELICIOUSCOPY_VERBOSE"`
	SkipLogged bool          `toml:"skip_logged" env:"DELICIOUSCOPY_SKIP_LOGGED"`
	CopyNotes  bool          `toml:"copy_notes" env:"DELICIOUSCOPY_COPY_NOTES"`
	Delay      time.Duration `toml:"delay" env:"DELICIOUSCOPY_DELAY"`
	Schedule   string        `toml:"schedule" env:"DELICIOUSCOPY_SCHEDULE"`
}

func Default() Config {
	return Config{
		LogFile: "deliciouscopy.log",
		Delay:   time.Second,
	}
}

// Load reads the toml file at path, if given, and applies environment
// variables on top. The result is validated for a copy run.
func Load(path string) (Config, error) {
	cfg, err := load(path)
	if err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// LoadHistory is Load for commands that only read the history store.
// It does not need delicious credentials.
func LoadHistory(path string) (Config, error) {
	cfg, err := load(path)
	if err != nil {
		return Config{}, err
	}

	return cfg, cfg.ValidateHistory()
}

func load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, err
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse env: %v", ErrInvalidConfiguration, err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Delicious.Username == "":
		return fmt.Errorf("%w: delicious username is required", ErrInvalidConfiguration)
	case c.Delicious.Password == "":
		return fmt.Errorf("%w: delicious password is required", ErrInvalidConfiguration)
	case c.LogFile == "":
		return fmt.Errorf("%w: logfile is required", ErrInvalidConfiguration)
	case c.Delay < 0:
		return fmt.Errorf("%w: delay must not be negative", ErrInvalidConfiguration)
	}

	if c.Miniflux.Hostname != "" && (c.Miniflux.APIKey == "" || c.Miniflux.CategoryID == 0) {
		return fmt.Errorf("%w: miniflux needs api_key and category_id", ErrInvalidConfiguration)
	}

	if c.History.Driver != "" {
		if err := c.History.validate(); err != nil {
			return err
		}
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("%w: schedule: %v", ErrInvalidConfiguration, err)
		}
	}

	return nil
}

// ValidateHistory checks only what is needed to open the history store.
func (c Config) ValidateHistory() error {
	if c.History.Driver == "" {
		return fmt.Errorf("%w: no history configured", ErrInvalidConfiguration)
	}

	return c.History.validate()
}

func (h History) validate() error {
	switch h.Driver {
	case "postgres":
	case "sqlite":
		if h.SQLitePath == "" {
			return fmt.Errorf("%w: history sqlite_path is required", ErrInvalidConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown history driver %q", ErrInvalidConfiguration, h.Driver)
	}

	return nil
}
