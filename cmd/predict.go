package cmd

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/urbansense/trafficlens/internal/analyzer"
	"github.com/urbansense/trafficlens/internal/charts"
	"github.com/urbansense/trafficlens/internal/dataset"
	"github.com/urbansense/trafficlens/internal/output"
	"github.com/urbansense/trafficlens/internal/parallel"
	"github.com/urbansense/trafficlens/internal/regress"
	"go.uber.org/zap"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score every reading with the pre-trained flow model",
	Long: `predict loads the readings and station CSVs, joins and cleans them, and
computes a flow prediction per reading across the configured worker pool.
With --verify (the default) the parallel results are checked against a
sequential pass within the configured floating tolerance.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		exitOnError(err)

		logger := newLogger()
		defer logger.Sync()

		model, err := regress.Load(cfg.ModelFile)
		exitOnError(err)

		ctx := context.Background()
		readings, err := dataset.NewLoader(logger).Load(cfg.ReadingsFile, cfg.StationsFile)
		exitOnError(err)

		predictor := analyzer.NewPredictor(cfg, model, logger)
		workers := parallel.DefaultWorkers(cfg.Workers)
		predictions, err := predictor.Score(ctx, readings, workers)
		exitOnError(err)

		verify, _ := cmd.Flags().GetBool("verify")
		if verify {
			exitOnError(predictor.Verify(ctx, readings, predictions))
		}

		dest, err := output.ForConfig(cfg, logger)
		exitOnError(err)
		for _, pred := range predictions {
			msg, err := json.Marshal(pred)
			exitOnError(err)
			exitOnError(dest.WriteMessage(output.TopicPredictions, msg))
		}
		exitOnError(dest.Close())

		var artifacts []string
		if cfg.ChartsEnabled {
			renderer, err := charts.NewRenderer(filepath.Join(cfg.OutputPath, cfg.OutputFolder), logger)
			exitOnError(err)
			path, err := renderer.PredictedVsActual(predictions, 5000)
			exitOnError(err)
			artifacts = append(artifacts, path)
		}
		exitOnError(uploadArtifacts(cfg, logger, artifacts))

		logger.Info("predict run complete",
			zap.String("run_id", predictor.RunID()),
			zap.Int("predictions", len(predictions)))
	},
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().String("model", "", "Serialized model file")
	predictCmd.Flags().Bool("verify", true, "Check parallel predictions against a sequential pass")

	viper.BindPFlag("model_file", predictCmd.Flags().Lookup("model"))
}
