package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urbansense/trafficlens/internal/generate"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Synthesize a sample dataset and model file",
	Long: `generate writes stations.csv, readings.csv and model.json into the target
directory so the analysis commands can run without external data. Output is
deterministic for a given seed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)

		logger := newLogger()
		defer logger.Sync()

		dir, _ := cmd.Flags().GetString("out")
		exitOnError(generate.NewGenerator(cfg, logger).Run(dir))

		logger.Info("sample dataset ready", zap.String("dir", dir))
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("out", "data", "Directory for the generated dataset")
	generateCmd.Flags().Int("seed", 42, "Random seed")
	generateCmd.Flags().Int("station-count", 10, "Number of stations to generate")
	generateCmd.Flags().String("start-date", time.Now().Format(time.RFC3339), "Start of the generated date range")
	generateCmd.Flags().String("end-date", time.Now().AddDate(0, 0, 2).Format(time.RFC3339), "End of the generated date range")

	viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("station_count", generateCmd.Flags().Lookup("station-count"))
	viper.BindPFlag("start_date", generateCmd.Flags().Lookup("start-date"))
	viper.BindPFlag("end_date", generateCmd.Flags().Lookup("end-date"))
}
