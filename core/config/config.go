package config

import (
	"reflect"
	"strings"

	"library-manager/core/database"
	"library-manager/core/logger"
	"library-manager/core/server"
	"library-manager/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Catalog holds settings for snapshot export/import and asset scanning.
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// CatalogConfig controls how object keys are classified and where they are listed from.
type CatalogConfig struct {
	// EpubExtensions are primary e-book extensions; orphans get synthetic snapshot rows.
	EpubExtensions []string `mapstructure:"epub_extensions" default:".epub"`
	// MobiExtensions are secondary e-book extensions.
	MobiExtensions []string `mapstructure:"mobi_extensions" default:".mobi,.azw3,.azw"`
	// AudiobookExtensions are audiobook extensions; orphans go to the "New Audiobooks" sheet.
	AudiobookExtensions []string `mapstructure:"audiobook_extensions" default:".m4b,.m4a,.mp3"`
	// Prefix restricts the bucket listing to keys under this prefix.
	Prefix string `mapstructure:"prefix" default:""`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STORAGE_BUCKET -> storage.bucket)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv.
		// Slice defaults are comma-separated and split by viper's decode hook.
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
