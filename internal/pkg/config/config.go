package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	StoreBackend       string `env:"STORE_BACKEND,        default=mongo"`
	BcryptCost         int    `env:"BCRYPT_COST,          default=10"`
	AllowRoleSelection bool   `env:"ALLOW_ROLE_SELECTION, default=false"`
	AuditWorkers       int    `env:"AUDIT_WORKERS,        default=4"`

	JWT    JWTConfig
	Mongo  MongoConfig
	SQLite SQLiteConfig
	Redis  RedisConfig
	Admin  AdminConfig
}

type JWTConfig struct {
	Secret     string        `env:"JWT_SECRET, required"`
	Issuer     string        `env:"JWT_ISSUER,      default=accounts-service"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL,  default=24h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL, default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=accounts"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=accounts.db"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=true"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	ClaimTTL time.Duration `env:"CLAIM_TTL,      default=30s"`
}

// AdminConfig seeds the first administrator. An empty password disables
// seeding.
type AdminConfig struct {
	Email     string `env:"ADMIN_EMAIL,     default=admin@example.com"`
	Password  string `env:"ADMIN_PASSWORD"`
	Name      string `env:"ADMIN_NAME,      default=Admin"`
	Surnames  string `env:"ADMIN_SURNAMES"`
	Telephone string `env:"ADMIN_TELEPHONE, default=123456789"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendSQLite, c.StoreBackend)
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL and JWT_REFRESH_TTL must be positive")
	}
	if c.AuditWorkers <= 0 {
		return errors.New("AUDIT_WORKERS must be positive")
	}
	return nil
}

// Process reads configuration through lookuper and validates it.
func Process(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads an optional .env file and then the process environment using
// go-envconfig. It panics on invalid configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("config: failed to read .env: %v", err))
	}

	cfg, err := Process(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
