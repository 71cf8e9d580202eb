package config

import (
	"os"
	"reflect"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
// Each field is a section; constructors can depend on a section directly
// (e.g. *config.LogConfig) once ConfigServiceProvider is registered.
type Config struct {
	App  AppConfig
	Log  LogConfig
	View ViewConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
}

type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // json | console
}

type ViewConfig struct {
	Dir string
	Ext string
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "GoContainer"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
		},
		Log: LogConfig{
			Level:  env("LOG_LEVEL", "info"),
			Format: env("LOG_FORMAT", "console"),
		},
		View: ViewConfig{
			Dir: env("VIEW_DIR", "./views"),
			Ext: env("VIEW_EXT", ".html"),
		},
	}
}

// Section returns a pointer to the section of cfg whose pointer type is t,
// e.g. t == reflect.TypeOf(&AppConfig{}) yields &cfg.App.
func Section(cfg *Config, t reflect.Type) (any, bool) {
	if cfg == nil || t == nil || t.Kind() != reflect.Pointer {
		return nil, false
	}
	v := reflect.ValueOf(cfg).Elem()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).Addr().Type() == t {
			return v.Field(i).Addr().Interface(), true
		}
	}
	return nil, false
}

// IsSection reports whether t is a pointer to one of Config's sections.
func IsSection(t reflect.Type) bool {
	_, ok := Section(&Config{}, t)
	return ok
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
