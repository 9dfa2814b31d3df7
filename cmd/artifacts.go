package cmd

import (
	"github.com/urbansense/trafficlens/internal/cloudwriter"
	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap"
)

// uploadArtifacts pushes rendered files to cloud storage when the output
// destination is not local. A no-op otherwise.
func uploadArtifacts(cfg *models.Config, logger *zap.Logger, paths []string) error {
	if cfg.OutputDestination == "local" || cfg.OutputDestination == "" || len(paths) == 0 {
		return nil
	}

	factory, err := cloudwriter.ForConfig(&cfg.CloudStorage)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := cloudwriter.UploadFile(factory, cfg.CloudStorage.BucketName, cfg.OutputFolder, path); err != nil {
			return err
		}
		logger.Info("uploaded artifact",
			zap.String("path", path),
			zap.String("bucket", cfg.CloudStorage.BucketName))
	}
	return nil
}
