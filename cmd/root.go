package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trafficlens",
	Short: "Analyses traffic-sensor datasets",
	Long: `trafficlens is a CLI tool for analysing traffic-sensor readings: it scores
readings with a pre-trained flow model across a worker pool, finds the busiest
one-hour window per sensor-day, renders PNG charts and writes result records
to CSV, JSON, Parquet, Postgres or Kafka sinks.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.PersistentFlags().String("readings", "", "Sensor readings CSV file")
	rootCmd.PersistentFlags().String("stations", "", "Station metadata CSV file")
	rootCmd.PersistentFlags().Int("workers", 0, "Worker count for parallel stages (0 = number of CPUs)")
	rootCmd.PersistentFlags().String("output-path", "", "Base directory for output files")
	rootCmd.PersistentFlags().String("output-folder", "trafficlens_output", "Folder under the output path")
	rootCmd.PersistentFlags().String("output-format", "csv", "Record sink format: csv, json, parquet or console")
	rootCmd.PersistentFlags().Bool("charts", false, "Render PNG charts")

	viper.BindPFlag("readings_file", rootCmd.PersistentFlags().Lookup("readings"))
	viper.BindPFlag("stations_file", rootCmd.PersistentFlags().Lookup("stations"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("output_path", rootCmd.PersistentFlags().Lookup("output-path"))
	viper.BindPFlag("output_folder", rootCmd.PersistentFlags().Lookup("output-folder"))
	viper.BindPFlag("output_format", rootCmd.PersistentFlags().Lookup("output-format"))
	viper.BindPFlag("charts_enabled", rootCmd.PersistentFlags().Lookup("charts"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigType("json")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("trafficlens")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func loadConfig() (*models.Config, error) {
	return models.LoadConfig(cfgFile)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
