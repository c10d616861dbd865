package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for config and env files
var AppFs = afero.NewOsFs()

const (
	configName = ".query-serializer"
	envPrefix  = "QS"
)

// Config holds the application configuration
type Config struct {
	DatabaseURL string
	Provider    string
	Separator   string
	ArraySuffix string
	Format      string
	Debug       bool
	// File is the config file that was read, empty when none was found
	File string
}

// newViper creates a viper instance wired to AppFs with defaults applied
func newViper() *viper.Viper {
	v := viper.New()
	v.SetFs(AppFs)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("separator", "__")
	v.SetDefault("array_suffix", "[]")
	v.SetDefault("format", "json")
	v.SetDefault("debug", false)
	return v
}

// LoadConfig loads configuration from the file at path, or from the
// standard locations when path is empty
func LoadConfig(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}

		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "query-serializer"))

		// A missing config file is fine; a broken one is not
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL: v.GetString("database_url"),
		Provider:    v.GetString("provider"),
		Separator:   v.GetString("separator"),
		ArraySuffix: v.GetString("array_suffix"),
		Format:      v.GetString("format"),
		Debug:       v.GetBool("debug"),
		File:        v.ConfigFileUsed(),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// loadEnvFiles loads .env, then .env.local which takes priority
func loadEnvFiles() error {
	if ok, _ := afero.Exists(AppFs, ".env"); ok {
		if err := loadEnvFile(".env", false); err != nil {
			return err
		}
	}
	if ok, _ := afero.Exists(AppFs, ".env.local"); ok {
		if err := loadEnvFile(".env.local", true); err != nil {
			return err
		}
	}
	return nil
}

func loadEnvFile(name string, override bool) error {
	f, err := AppFs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return err
	}
	for key, value := range env {
		if _, exists := os.LookupEnv(key); exists && !override {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SaveConfig writes cfg to path, or to ~/.config/query-serializer when path is empty
func SaveConfig(cfg *Config, path string) (string, error) {
	v := newViper()
	v.Set("database_url", cfg.DatabaseURL)
	v.Set("provider", cfg.Provider)
	v.Set("separator", cfg.Separator)
	v.Set("array_suffix", cfg.ArraySuffix)
	v.Set("format", cfg.Format)
	v.Set("debug", cfg.Debug)

	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", err
		}
		dir := filepath.Join(home, ".config", "query-serializer")
		if err := AppFs.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		path = filepath.Join(dir, configName+".yaml")
	}

	if err := v.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, nil
}
