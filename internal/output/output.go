package output

import (
	"fmt"

	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap"
)

// Topics used by the analysis commands.
const (
	TopicPredictions  = "predictions"
	TopicBusiestHours = "busiest_hours"
)

// Destination is a sink for JSON-encoded result records, keyed by topic.
type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// ForConfig selects the destination the way the config asks for it: Kafka
// wins over file formats, and an empty output path falls back to the console.
func ForConfig(config *models.Config, logger *zap.Logger) (Destination, error) {
	if config.KafkaEnabled {
		return NewKafkaOutput(config, logger)
	}
	if config.PostgresEnabled {
		return NewPostgresOutput(config, logger)
	}
	if config.OutputPath != "" {
		switch config.OutputFormat {
		case "parquet":
			return NewParquetOutput(config.OutputPath, config.OutputFolder)
		case "json":
			return NewJSONOutput(config.OutputPath, config.OutputFolder)
		case "csv":
			return NewCSVOutput(config.OutputPath, config.OutputFolder)
		case "console":
			return &ConsoleOutput{}, nil
		default:
			return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
		}
	}
	return &ConsoleOutput{}, nil
}

type ConsoleOutput struct{}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	_, err := fmt.Printf("[%s] %s\n", topic, string(msg))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}
