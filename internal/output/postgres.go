package output

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urbansense/trafficlens/internal/models"
	"go.uber.org/zap"
)

// PostgresOutput inserts result records into per-topic tables via pgx.
type PostgresOutput struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresOutput(config *models.Config, logger *zap.Logger) (*PostgresOutput, error) {
	db := config.Database
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		db.User, db.Password, db.Host, db.Port, db.DBName, db.SSLMode,
	)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &PostgresOutput{pool: pool, logger: logger}, nil
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	ctx := context.Background()

	switch topic {
	case TopicPredictions:
		var pred models.Prediction
		if err := json.Unmarshal(msg, &pred); err != nil {
			return err
		}
		_, err := p.pool.Exec(ctx, `
            INSERT INTO predictions (
                run_id, station_id, ts, actual_flow, predicted_flow, model_version
            ) VALUES ($1, $2, $3, $4, $5, $6)`,
			pred.RunID, pred.StationID, pred.Timestamp,
			pred.ActualFlow, pred.PredictedFlow, pred.ModelVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction: %w", err)
		}
		return nil
	case TopicBusiestHours:
		var busiest models.BusiestHour
		if err := json.Unmarshal(msg, &busiest); err != nil {
			return err
		}
		_, err := p.pool.Exec(ctx, `
            INSERT INTO busiest_hours (
                run_id, station_id, day, window_start, window_end, total_flow, sample_count
            ) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			busiest.RunID, busiest.StationID, busiest.Day,
			busiest.WindowStart, busiest.WindowEnd, busiest.TotalFlow, busiest.SampleCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert busiest hour: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("no table mapped for topic: %s", topic)
	}
}

// BulkInsertBusiestHours loads a whole run's results in one transaction.
func (p *PostgresOutput) BulkInsertBusiestHours(ctx context.Context, results []models.BusiestHour) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO busiest_hours (
            run_id, station_id, day, window_start, window_end, total_flow, sample_count
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, busiest := range results {
		_, err = tx.Exec(ctx, stmt,
			busiest.RunID,
			busiest.StationID,
			busiest.Day,
			busiest.WindowStart,
			busiest.WindowEnd,
			busiest.TotalFlow,
			busiest.SampleCount,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresOutput) Close() error {
	p.pool.Close()
	return nil
}
