package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urbansense/trafficlens/internal/models"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

type predictionRecord struct {
	RunID         string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	StationID     string  `parquet:"name=station_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Timestamp     int64   `parquet:"name=timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	ActualFlow    float64 `parquet:"name=actual_flow, type=DOUBLE"`
	PredictedFlow float64 `parquet:"name=predicted_flow, type=DOUBLE"`
	ModelVersion  string  `parquet:"name=model_version, type=BYTE_ARRAY, convertedtype=UTF8"`
}

type busiestHourRecord struct {
	RunID       string  `parquet:"name=run_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	StationID   string  `parquet:"name=station_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Day         string  `parquet:"name=day, type=BYTE_ARRAY, convertedtype=UTF8"`
	WindowStart int64   `parquet:"name=window_start, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	WindowEnd   int64   `parquet:"name=window_end, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	TotalFlow   float64 `parquet:"name=total_flow, type=DOUBLE"`
	SampleCount int32   `parquet:"name=sample_count, type=INT32"`
}

// ParquetOutput writes one parquet file per topic with a typed schema.
type ParquetOutput struct {
	basePath string
	folder   string
	writers  map[string]*writer.ParquetWriter
	files    map[string]source.ParquetFile
}

func NewParquetOutput(basePath, folder string) (*ParquetOutput, error) {
	if err := os.MkdirAll(filepath.Join(basePath, folder), os.ModePerm); err != nil {
		return nil, err
	}
	return &ParquetOutput{
		basePath: basePath,
		folder:   folder,
		writers:  make(map[string]*writer.ParquetWriter),
		files:    make(map[string]source.ParquetFile),
	}, nil
}

// FilePath returns where a topic's parquet file lives.
func (p *ParquetOutput) FilePath(topic string) string {
	return filepath.Join(p.basePath, p.folder, topic+".parquet")
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	pw, ok := p.writers[topic]
	if !ok {
		var err error
		pw, err = p.createWriter(topic)
		if err != nil {
			return fmt.Errorf("failed to create parquet writer: %w", err)
		}
	}

	record, err := decodeRecord(topic, msg)
	if err != nil {
		return err
	}
	if err := pw.Write(record); err != nil {
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createWriter(topic string) (*writer.ParquetWriter, error) {
	schema, err := schemaFor(topic)
	if err != nil {
		return nil, err
	}

	fw, err := local.NewLocalFileWriter(p.FilePath(topic))
	if err != nil {
		return nil, err
	}

	pw, err := writer.NewParquetWriter(fw, schema, 4)
	if err != nil {
		return nil, err
	}

	p.writers[topic] = pw
	p.files[topic] = fw
	return pw, nil
}

func (p *ParquetOutput) Close() error {
	var lastErr error
	for topic, pw := range p.writers {
		if err := pw.WriteStop(); err != nil {
			lastErr = err
		}
		if err := p.files[topic].Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func schemaFor(topic string) (interface{}, error) {
	switch topic {
	case TopicPredictions:
		return new(predictionRecord), nil
	case TopicBusiestHours:
		return new(busiestHourRecord), nil
	default:
		return nil, fmt.Errorf("no parquet schema for topic: %s", topic)
	}
}

func decodeRecord(topic string, msg []byte) (interface{}, error) {
	switch topic {
	case TopicPredictions:
		var pred models.Prediction
		if err := json.Unmarshal(msg, &pred); err != nil {
			return nil, err
		}
		return predictionRecord{
			RunID:         pred.RunID,
			StationID:     pred.StationID,
			Timestamp:     pred.Timestamp.UnixMilli(),
			ActualFlow:    pred.ActualFlow,
			PredictedFlow: pred.PredictedFlow,
			ModelVersion:  pred.ModelVersion,
		}, nil
	case TopicBusiestHours:
		var busiest models.BusiestHour
		if err := json.Unmarshal(msg, &busiest); err != nil {
			return nil, err
		}
		return busiestHourRecord{
			RunID:       busiest.RunID,
			StationID:   busiest.StationID,
			Day:         busiest.Day,
			WindowStart: busiest.WindowStart.UnixMilli(),
			WindowEnd:   busiest.WindowEnd.UnixMilli(),
			TotalFlow:   busiest.TotalFlow,
			SampleCount: int32(busiest.SampleCount),
		}, nil
	default:
		return nil, fmt.Errorf("no parquet schema for topic: %s", topic)
	}
}
