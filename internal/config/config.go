package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Server struct {
		Addr         string `yaml:"addr"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
	} `yaml:"server"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns    int    `yaml:"max_open_conns"`
			MaxIdleConns    int    `yaml:"max_idle_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Secret string `yaml:"secret"`
		Issuer string `yaml:"issuer"`
		// Duración del access token en milisegundos.
		ExpirationMs int64 `yaml:"expiration_ms"`
	} `yaml:"jwt"`

	OAuth struct {
		StateTTL string `yaml:"state_ttl"`
		GitHub   struct {
			ClientID          string   `yaml:"client_id"`
			ClientSecret      string   `yaml:"client_secret"`
			RedirectURL       string   `yaml:"redirect_url"`
			Scopes            []string `yaml:"scopes"`
			FetchPrivateEmail bool     `yaml:"fetch_private_email"`
		} `yaml:"github"`
	} `yaml:"oauth"`

	DefaultAdmin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Email    string `yaml:"email"`
	} `yaml:"default_admin"`

	Auth struct {
		DefaultRole string `yaml:"default_role"`
		AdminRole   string `yaml:"admin_role"`
	} `yaml:"auth"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`

	Flags struct {
		Migrate bool `yaml:"migrate"`
		Seed    bool `yaml:"seed"`
	} `yaml:"flags"`
}

// Load lee el YAML (si path no está vacío), aplica defaults y luego env.
// No valida: el llamador decide cuándo invocar Validate.
func Load(path string) (*Config, error) {
	var c Config
	// Defaults que YAML puede desactivar explícitamente.
	c.OAuth.GitHub.FetchPrivateEmail = true
	c.Flags.Seed = true

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "blogweb:"
	}
	if c.Cache.Memory.DefaultTTL == "" {
		c.Cache.Memory.DefaultTTL = "10m"
	}
	if c.JWT.ExpirationMs == 0 {
		c.JWT.ExpirationMs = int64(time.Hour / time.Millisecond)
	}
	if c.OAuth.StateTTL == "" {
		c.OAuth.StateTTL = "10m"
	}
	if len(c.OAuth.GitHub.Scopes) == 0 {
		c.OAuth.GitHub.Scopes = []string{"read:user", "user:email"}
	}
	if c.Auth.DefaultRole == "" {
		c.Auth.DefaultRole = "USER"
	}
	if c.Auth.AdminRole == "" {
		c.Auth.AdminRole = "ADMIN"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}
}

// TokenTTL devuelve jwt.expiration_ms como time.Duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpirationMs) * time.Millisecond
}

// Validate falla con *ConfigurationError ante valores que impiden arrancar.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return &ConfigurationError{Key: "jwt.secret", Msg: "signing secret is required"}
	}
	if strings.TrimSpace(c.JWT.Issuer) == "" {
		return &ConfigurationError{Key: "jwt.issuer", Msg: "issuer is required"}
	}
	if c.JWT.ExpirationMs <= 0 {
		return &ConfigurationError{Key: "jwt.expiration_ms", Msg: "must be > 0"}
	}
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return &ConfigurationError{Key: "storage.dsn", Msg: "required for postgres driver"}
		}
	default:
		return &ConfigurationError{Key: "storage.driver", Msg: fmt.Sprintf("unknown driver %q", c.Storage.Driver)}
	}
	switch c.Cache.Kind {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			return &ConfigurationError{Key: "cache.redis.addr", Msg: "required for redis cache"}
		}
	default:
		return &ConfigurationError{Key: "cache.kind", Msg: fmt.Sprintf("unknown kind %q", c.Cache.Kind)}
	}
	for key, v := range map[string]string{
		"server.read_timeout":      c.Server.ReadTimeout,
		"server.write_timeout":     c.Server.WriteTimeout,
		"oauth.state_ttl":          c.OAuth.StateTTL,
		"rate.login.window":        c.Rate.Login.Window,
		"cache.memory.default_ttl": c.Cache.Memory.DefaultTTL,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return &ConfigurationError{Key: key, Msg: "invalid duration", Err: err}
		}
	}
	if c.Flags.Seed {
		if c.DefaultAdmin.Username == "" || c.DefaultAdmin.Password == "" || c.DefaultAdmin.Email == "" {
			return &ConfigurationError{Key: "default_admin", Msg: "username, password and email are required when seeding"}
		}
	}
	return nil
}

// MustDuration parsea una duración ya validada; cae a def si está vacía o mal formada.
func MustDuration(v string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
		return d
	}
	return def
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

func getEnvInt64(key string) (int64, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}

// applyEnvOverrides: las variables de entorno pisan config.yaml.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvInt64("REDIS_DB"); ok {
		c.Cache.Redis.DB = int(v)
	}

	// JWT
	if v, ok := getEnvStr("JWT_SECRET"); ok {
		c.JWT.Secret = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvInt64("JWT_EXPIRATION_MS"); ok {
		c.JWT.ExpirationMs = v
	}

	// OAUTH
	if v, ok := getEnvStr("GITHUB_CLIENT_ID"); ok {
		c.OAuth.GitHub.ClientID = v
	}
	if v, ok := getEnvStr("GITHUB_CLIENT_SECRET"); ok {
		c.OAuth.GitHub.ClientSecret = v
	}
	if v, ok := getEnvStr("GITHUB_REDIRECT_URL"); ok {
		c.OAuth.GitHub.RedirectURL = v
	}

	// ADMIN POR DEFECTO
	if v, ok := getEnvStr("DEFAULT_ADMIN_USERNAME"); ok {
		c.DefaultAdmin.Username = v
	}
	if v, ok := getEnvStr("DEFAULT_ADMIN_PASSWORD"); ok {
		c.DefaultAdmin.Password = v
	}
	if v, ok := getEnvStr("DEFAULT_ADMIN_EMAIL"); ok {
		c.DefaultAdmin.Email = v
	}

	// RATE / FLAGS
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvBool("FLAGS_MIGRATE"); ok {
		c.Flags.Migrate = v
	}
	if v, ok := getEnvBool("FLAGS_SEED"); ok {
		c.Flags.Seed = v
	}
}
