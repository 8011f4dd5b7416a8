package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	DB       DBConfig
	Redis    RedisConfig
	Cart     CartConfig
	Catalog  CatalogConfig
	Payments PaymentsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if cfg.Store.Backend == StoreBackendSQL {
		if err := cfg.DB.EnsureDSN(); err != nil {
			return nil, err
		}
	}
	if cfg.Store.Backend == StoreBackendRedis && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("either %s or %s is required for the redis store", EnvRedisURL, EnvRedisAddr)
	}
	if cfg.Cart.FlatShippingFee < 0 || cfg.Cart.FreeShippingThreshold < 0 {
		return nil, fmt.Errorf("cart shipping settings must be non-negative")
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SONUMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"SONUMARKET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SONUMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SONUMARKET_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"SONUMARKET_LOG_FORMAT" default:"json"`
	// CORSOrigins lists the storefront origins allowed to call the API.
	CORSOrigins []string `envconfig:"SONUMARKET_CORS_ORIGINS" default:"http://localhost:3000"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server and snapshot writer.
	ShutdownTimeout time.Duration `envconfig:"SONUMARKET_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig selects where cart/user snapshots are persisted.
type StoreConfig struct {
	Backend      string        `envconfig:"SONUMARKET_STORE_BACKEND" default:"memory"`
	WriteTimeout time.Duration `envconfig:"SONUMARKET_STORE_WRITE_TIMEOUT" default:"3s"`
	AutoMigrate  bool          `envconfig:"SONUMARKET_AUTO_MIGRATE" default:"false"`
}

func (s *StoreConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case StoreBackendMemory, StoreBackendRedis, StoreBackendSQL:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvStoreBackend, StoreBackendMemory, StoreBackendRedis, StoreBackendSQL)
}

type DBConfig struct {
	DSN    string `envconfig:"SONUMARKET_DB_DSN"`
	Driver string `envconfig:"SONUMARKET_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SONUMARKET_DB_HOST"`
	Port     int    `envconfig:"SONUMARKET_DB_PORT" default:"5432"`
	User     string `envconfig:"SONUMARKET_DB_USER"`
	Password string `envconfig:"SONUMARKET_DB_PASSWORD"`
	Name     string `envconfig:"SONUMARKET_DB_NAME"`
	SSLMode  string `envconfig:"SONUMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SONUMARKET_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SONUMARKET_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SONUMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SONUMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the snapshot database is a local sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SONUMARKET_REDIS_URL"`
	Address      string        `envconfig:"SONUMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"SONUMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"SONUMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SONUMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SONUMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SONUMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SONUMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SONUMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
	SnapshotTTL  time.Duration `envconfig:"SONUMARKET_REDIS_SNAPSHOT_TTL" default:"720h"`
}

type CartConfig struct {
	FreeShippingThreshold int64 `envconfig:"SONUMARKET_CART_FREE_SHIPPING_THRESHOLD" default:"500000"`
	FlatShippingFee       int64 `envconfig:"SONUMARKET_CART_FLAT_SHIPPING_FEE" default:"5000"`
}

type CatalogConfig struct {
	DefaultPriceMax int64 `envconfig:"SONUMARKET_CATALOG_DEFAULT_PRICE_MAX" default:"5000000"`
}

type PaymentsConfig struct {
	SimulatedDelay time.Duration `envconfig:"SONUMARKET_PAYMENTS_SIMULATED_DELAY" default:"2500ms"`
	// SimulatedOutcome forces the simulated charger result ("success" or "pending").
	SimulatedOutcome string `envconfig:"SONUMARKET_PAYMENTS_SIMULATED_OUTCOME" default:"success"`
}

// EnsureDSN fills DSN from the host/user/name parts when it is not set explicitly.
func (db *DBConfig) EnsureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
