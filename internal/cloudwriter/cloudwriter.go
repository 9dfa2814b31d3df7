package cloudwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urbansense/trafficlens/internal/models"
)

// CloudWriter is an io.Writer whose Close flushes the object to the bucket.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}

// ForConfig builds the factory for the configured provider.
func ForConfig(config *models.CloudStorageConfig) (CloudWriterFactory, error) {
	switch config.Provider {
	case "s3":
		return NewS3WriterFactory(config.Region)
	default:
		return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.Provider)
	}
}

// UploadFile copies a local artifact (chart PNG, parquet file) to the bucket
// under its base name.
func UploadFile(factory CloudWriterFactory, bucket, prefix, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening artifact: %w", err)
	}
	defer file.Close()

	objectPath := filepath.Join(prefix, filepath.Base(localPath))
	w, err := factory.NewWriter(bucket, objectPath)
	if err != nil {
		return fmt.Errorf("creating cloud writer: %w", err)
	}

	if _, err := io.Copy(w, file); err != nil {
		return fmt.Errorf("uploading %s: %w", localPath, err)
	}
	return w.Close()
}
