package config

// EnvPrefix is passed to envconfig; every field carries an explicit envconfig tag.
const EnvPrefix = "SONUMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
	StoreBackendSQL    = "sql"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv       = "SONUMARKET_APP_ENV"
	EnvPort         = "SONUMARKET_APP_PORT"
	EnvStoreBackend = "SONUMARKET_STORE_BACKEND"
	EnvDBDSN        = "SONUMARKET_DB_DSN"
	EnvDBDriver     = "SONUMARKET_DB_DRIVER"
	EnvDBHost       = "SONUMARKET_DB_HOST"
	EnvDBUser       = "SONUMARKET_DB_USER"
	EnvDBName       = "SONUMARKET_DB_NAME"
	EnvRedisURL     = "SONUMARKET_REDIS_URL"
	EnvRedisAddr    = "SONUMARKET_REDIS_ADDR"

	EnvCartFreeShippingThreshold = "SONUMARKET_CART_FREE_SHIPPING_THRESHOLD"
	EnvCartFlatShippingFee       = "SONUMARKET_CART_FLAT_SHIPPING_FEE"
	EnvPaymentsSimulatedDelay    = "SONUMARKET_PAYMENTS_SIMULATED_DELAY"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
