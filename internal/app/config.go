package app

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/scoring"
)

const (
	defaultMigrationsDir = "./migrations"
	defaultTokenHeader   = "Authorization"
	defaultKeyTemplate   = "auth:{user}"
	defaultCacheTTL      = 60
)

type Config struct {
	Server struct {
		Port       string `toml:"port"`
		EnableAuth bool   `toml:"enable_auth"`
	} `toml:"server"`

	Auth struct {
		RedisURL         string `toml:"redis_url"`
		TokenHeader      string `toml:"token_header"`
		TokenKeyTemplate string `toml:"token_key_template"`
	} `toml:"auth"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Scoring struct {
		Precision *int   `toml:"precision"`
		EmptyGPA  string `toml:"empty_gpa"`
	} `toml:"scoring"`

	Cache struct {
		TTLSeconds int `toml:"ttl_seconds"`
	} `toml:"cache"`

	Bot struct {
		Token    string  `toml:"token"`
		AdminIDs []int64 `toml:"admin_ids"`
	} `toml:"bot"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseConfig(path, data)
}

func ParseConfig(path string, data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("Server port is not specified in config, use a value like :9999")
	}

	config.applyDefaults()

	logger.Debug.Printf("Loaded scoring config: precision=%d empty_gpa=%q",
		*config.Scoring.Precision, config.Scoring.EmptyGPA)

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Database.MigrationsDir == "" {
		c.Database.MigrationsDir = defaultMigrationsDir
	}
	if c.Auth.TokenHeader == "" {
		c.Auth.TokenHeader = defaultTokenHeader
	}
	if c.Auth.TokenKeyTemplate == "" {
		c.Auth.TokenKeyTemplate = defaultKeyTemplate
	}
	if c.Scoring.Precision == nil || *c.Scoring.Precision < 0 {
		precision := scoring.DefaultPrecision
		c.Scoring.Precision = &precision
	}
	if c.Scoring.EmptyGPA == "" {
		c.Scoring.EmptyGPA = scoring.DefaultEmptyGPA
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = defaultCacheTTL
	}
}

// Grader builds the GPA grader described by the [scoring] section.
func (c *Config) Grader() *scoring.Grader {
	return scoring.NewGrader(*c.Scoring.Precision, c.Scoring.EmptyGPA)
}

// CacheTTL is negative when report caching is off; a zero ttl_seconds means the default.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
