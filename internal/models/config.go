package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	// Timezone is the operator's civil timezone; all schedule evaluation
	// resolves instants against it.
	Timezone string `mapstructure:"timezone"`

	// Client-local snapshot storage.
	StoragePath    string `mapstructure:"storage_path"`
	CartStorageKey string `mapstructure:"cart_storage_key"`

	RestaurantID string `mapstructure:"restaurant_id"`

	Database DatabaseConfig `mapstructure:"database"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	KafkaTopic      string `mapstructure:"kafka_topic"`

	OutputFormat      string             `mapstructure:"output_format"` // console, json or parquet
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"` // local or a cloud provider
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	// Demo sizing knobs.
	DemoProducts int `mapstructure:"demo_products"`
	DemoActions  int `mapstructure:"demo_actions"`
	Seed         int `mapstructure:"seed"`
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("timezone", "Europe/London")
	viper.SetDefault("storage_path", ".ordercore")
	viper.SetDefault("cart_storage_key", "cart")
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("kafka_topic", "order_session_events")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// Location loads the operator timezone. Falls back to UTC if the configured
// name does not resolve, so an availability check never hard-fails on a
// misconfigured locale.
func (cfg *Config) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
