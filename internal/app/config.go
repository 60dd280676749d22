package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home      string `mapstructure:"home"`       // config directory, e.g. $HOME/.sealpost
	RelayURL  string `mapstructure:"relay_url"`  // relay base URL, e.g. http://127.0.0.1:8080
	CacheSize int    `mapstructure:"cache_size"` // decryption cache bound

	HTTP *http.Client `mapstructure:"-"` // optional; defaults to http.DefaultClient
}

// LoadConfig resolves configuration from the environment (SEALPOST_* vars,
// with .env support) and built-in defaults. Flag overrides are applied by
// the caller on top.
func LoadConfig() (Config, error) {
	// Best-effort: a missing .env file is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("sealpost")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	v.SetDefault("home", filepath.Join(home, ".sealpost"))
	v.SetDefault("relay_url", "http://127.0.0.1:8080")
	v.SetDefault("cache_size", 256)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
