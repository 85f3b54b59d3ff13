package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig               `json:"basic_config"`
	Databases   map[string]DatabaseConfig `json:"databases"`
	Redis       RedisConfig               `json:"redis"`
	Providers   map[string]ProviderConfig `json:"providers"`
	Maitre      MaitreConfig              `json:"maitre"`
}

type BasicConfig struct {
	ServerAddress string `json:"server_address"`
	UploadDir     string `json:"upload_dir"`
	// PublicBaseURL is the address printed into table QR codes.
	PublicBaseURL string `json:"public_base_url"`
}

type DatabaseConfig struct {
	DSN      string `json:"dsn"`
	Username string `json:"username"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	DBName   string `json:"db_name"`
	Params   string `json:"params"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type ProviderConfig struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}

type MaitreConfig struct {
	// Provider selects the completion backend: openai, claude or gemini.
	Provider string `json:"provider"`
	// RequestTimeoutSeconds bounds one completion call. Zero means the
	// default of 60 seconds.
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

const (
	defaultProvider = "openai"
	// The stock deployment talks to DeepSeek through its OpenAI-compatible
	// completions endpoint.
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"
)

// Load reads configuration from the provided path (defaults to config.json).
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.json"
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(cfg.Databases) == 0 {
		return nil, fmt.Errorf("databases must be configured")
	}
	for name, dbCfg := range cfg.Databases {
		if dbCfg.DSN != "" && dbCfg.DSN != ":memory:" && !filepath.IsAbs(dbCfg.DSN) {
			dbCfg.DSN = filepath.Join(filepath.Dir(absPath), dbCfg.DSN)
			cfg.Databases[name] = dbCfg
		}
	}

	cfg.applyMaitreDefaults()
	return &cfg, nil
}

func (c *Config) applyMaitreDefaults() {
	if c.Maitre.Provider == "" {
		c.Maitre.Provider = defaultProvider
	}
	if c.Providers == nil {
		c.Providers = make(map[string]ProviderConfig)
	}
	prov := c.Providers[c.Maitre.Provider]
	if c.Maitre.Provider == defaultProvider {
		if prov.BaseURL == "" {
			prov.BaseURL = defaultBaseURL
		}
		if prov.Model == "" {
			prov.Model = defaultModel
		}
	}
	if prov.APIKey == "" {
		prov.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	c.Providers[c.Maitre.Provider] = prov
}
