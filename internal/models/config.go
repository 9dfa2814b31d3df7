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
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type Config struct {
	ReadingsFile string `mapstructure:"readings_file"`
	StationsFile string `mapstructure:"stations_file"`
	ModelFile    string `mapstructure:"model_file"`

	OutputPath        string `mapstructure:"output_path"`
	OutputFolder      string `mapstructure:"output_folder"`
	OutputFormat      string `mapstructure:"output_format"`      // csv, json, parquet, console
	OutputDestination string `mapstructure:"output_destination"` // local or s3

	Workers        int     `mapstructure:"workers"` // 0 means runtime.NumCPU
	FloatTolerance float64 `mapstructure:"float_tolerance"`
	WindowMinutes  int     `mapstructure:"window_minutes"`

	ChartsEnabled bool `mapstructure:"charts_enabled"`
	ChartLimit    int  `mapstructure:"chart_limit"`

	// generate command
	Seed         int       `mapstructure:"seed"`
	StartDate    time.Time `mapstructure:"start_date"`
	EndDate      time.Time `mapstructure:"end_date"`
	StationCount int       `mapstructure:"station_count"`
	CityLat      float64   `mapstructure:"city_latitude"`
	CityLon      float64   `mapstructure:"city_longitude"`
	UrbanRadius  float64   `mapstructure:"urban_radius"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	KafkaTopic      string `mapstructure:"kafka_topic"`

	PostgresEnabled bool           `mapstructure:"postgres_enabled"`
	Database        DatabaseConfig `mapstructure:"database"`

	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
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

	viper.SetEnvPrefix("trafficlens")
	viper.AutomaticEnv() // Read in environment variables that match

	viper.SetDefault("output_format", "csv")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("float_tolerance", 1e-9)
	viper.SetDefault("window_minutes", 60)
	viper.SetDefault("chart_limit", 12)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
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

// Window returns the aggregation window, defaulting to one hour.
func (cfg *Config) Window() time.Duration {
	if cfg.WindowMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(cfg.WindowMinutes) * time.Minute
}
