package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/urbansense/trafficlens/internal/analyzer"
	"github.com/urbansense/trafficlens/internal/charts"
	"github.com/urbansense/trafficlens/internal/dataset"
	"github.com/urbansense/trafficlens/internal/output"
	"go.uber.org/zap"
)

var busiestCmd = &cobra.Command{
	Use:   "busiest",
	Short: "Find the busiest one-hour window per sensor-day",
	Long: `busiest groups the joined readings by (station, day) and reduces each group
to the observed timestamp whose one-hour window has the maximum summed flow.
With --charts each reduced group (up to chart_limit) gets a PNG flow series
with the winning window highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)

		logger := newLogger()
		defer logger.Sync()

		a := analyzer.NewAnalyzer(cfg, logger)
		results, groups, err := a.Run(context.Background())
		exitOnError(err)

		dest, err := output.ForConfig(cfg, logger)
		exitOnError(err)
		for _, result := range results {
			msg, err := json.Marshal(result)
			exitOnError(err)
			exitOnError(dest.WriteMessage(output.TopicBusiestHours, msg))
		}
		exitOnError(dest.Close())

		var artifacts []string
		if cfg.ChartsEnabled {
			renderer, err := charts.NewRenderer(filepath.Join(cfg.OutputPath, cfg.OutputFolder), logger)
			exitOnError(err)

			limit := cfg.ChartLimit
			for _, result := range results {
				if limit <= 0 {
					break
				}
				key := dataset.GroupKey{StationID: result.StationID, Day: result.Day}
				path, err := renderer.FlowSeries(groups[key], result)
				exitOnError(err)
				artifacts = append(artifacts, path)
				limit--
			}
		}
		exitOnError(uploadArtifacts(cfg, logger, artifacts))

		logger.Info("busiest run complete",
			zap.String("run_id", a.RunID()),
			zap.Int("groups", len(results)))
	},
}

func init() {
	rootCmd.AddCommand(busiestCmd)
}
