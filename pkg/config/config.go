package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	DB         DBConfig
	DocStore   DocStoreConfig
	HTTP       HTTPConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Allocation AllocationConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int32
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// DocStoreConfig selección del almacén de documentos.
type DocStoreConfig struct {
	Driver string // postgres | memory
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig autenticación por Bearer token. Secret vacío = API sin autenticación (desarrollo).
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Enabled indica si la API exige token.
func (c JWTConfig) Enabled() bool { return c.Secret != "" }

// RedisConfig Redis para el candado por línea y la caché de catálogos. Address vacío = sin Redis.
type RedisConfig struct {
	Address    string
	Password   string
	DB         int
	CatalogTTL time.Duration
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Address != "" }

// AllocationConfig parámetros del motor de asignación.
type AllocationConfig struct {
	OpenStatuses          []string
	DefaultWarehouseID    string
	DefaultWarehouseName  string
	HighPriorityDays      int
	MediumPriorityDays    int
	ItemLock              bool // candado por línea (requiere Redis); apagado por defecto
	LockTTL               time.Duration
	EnforceAvailableStock bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, REDIS_ADDRESS, ALLOCATION_*, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "procurement-allocation"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "procurement"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    int32(getInt(v, "DB_MAX_CONNS", 25)),
		},
		DocStore: DocStoreConfig{
			Driver: strings.ToLower(getString(v, "DOCSTORE_DRIVER", "postgres")),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "procurement-allocation"),
		},
		Redis: RedisConfig{
			Address:    getString(v, "REDIS_ADDRESS", ""),
			Password:   getString(v, "REDIS_PASSWORD", ""),
			DB:         getInt(v, "REDIS_DB", 0),
			CatalogTTL: time.Duration(getInt(v, "CATALOG_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Allocation: AllocationConfig{
			OpenStatuses:          getList(v, "ALLOCATION_OPEN_STATUSES", []string{"draft", "confirmed", "processing"}),
			DefaultWarehouseID:    getString(v, "ALLOCATION_DEFAULT_WAREHOUSE_ID", "warehouse-main"),
			DefaultWarehouseName:  getString(v, "ALLOCATION_DEFAULT_WAREHOUSE_NAME", "Bodega principal"),
			HighPriorityDays:      getInt(v, "ALLOCATION_HIGH_PRIORITY_DAYS", 7),
			MediumPriorityDays:    getInt(v, "ALLOCATION_MEDIUM_PRIORITY_DAYS", 30),
			ItemLock:              getBool(v, "ALLOCATION_ITEM_LOCK", false),
			LockTTL:               time.Duration(getInt(v, "ALLOCATION_LOCK_TTL_SECONDS", 30)) * time.Second,
			EnforceAvailableStock: getBool(v, "ALLOCATION_ENFORCE_AVAILABLE_STOCK", false),
		},
	}

	if cfg.DocStore.Driver != "postgres" && cfg.DocStore.Driver != "memory" {
		return nil, fmt.Errorf("DOCSTORE_DRIVER inválido: %q", cfg.DocStore.Driver)
	}
	if cfg.App.Env == "production" && !cfg.JWT.Enabled() {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio en producción")
	}
	if cfg.Allocation.ItemLock && !cfg.Redis.Enabled() {
		return nil, fmt.Errorf("ALLOCATION_ITEM_LOCK requiere REDIS_ADDRESS")
	}
	if cfg.Allocation.HighPriorityDays > cfg.Allocation.MediumPriorityDays {
		return nil, fmt.Errorf("ALLOCATION_HIGH_PRIORITY_DAYS (%d) no puede superar ALLOCATION_MEDIUM_PRIORITY_DAYS (%d)",
			cfg.Allocation.HighPriorityDays, cfg.Allocation.MediumPriorityDays)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getList lista separada por comas ("draft,confirmed").
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, s := range strings.Split(v.GetString(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
