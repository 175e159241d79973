package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/database"
)

type rateConfigRepository struct {
	db *database.DB
}

func NewRateConfigRepository(db *database.DB) rates.ConfigRepository {
	return &rateConfigRepository{db: db}
}

func (r *rateConfigRepository) GetEffective(ctx context.Context, month time.Time) (rates.Config, error) {
	q := GetQuerier(ctx, r.db)

	// Newest version effective on or before the first day of the month.
	query := `
		SELECT version, effective_from, config
		FROM rate_configs
		WHERE effective_from <= $1
		ORDER BY effective_from DESC
		LIMIT 1
	`

	firstOfMonth := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)

	var cfg rates.Config
	var raw []byte
	err := q.QueryRow(ctx, query, firstOfMonth).Scan(&cfg.Version, &cfg.EffectiveFrom, &raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return rates.Config{}, rates.ErrConfigNotFound
		}
		return rates.Config{}, fmt.Errorf("failed to get rate configuration: %w", err)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return rates.Config{}, fmt.Errorf("failed to unmarshal rate configuration: %w", err)
	}
	return cfg, nil
}

func (r *rateConfigRepository) Save(ctx context.Context, cfg rates.Config) (rates.Config, error) {
	q := GetQuerier(ctx, r.db)

	raw, err := json.Marshal(cfg)
	if err != nil {
		return rates.Config{}, fmt.Errorf("failed to marshal rate configuration: %w", err)
	}

	query := `
		INSERT INTO rate_configs (version, effective_from, config)
		VALUES ($1, $2, $3)
		ON CONFLICT (version) DO UPDATE SET
			effective_from = EXCLUDED.effective_from,
			config = EXCLUDED.config
	`

	if _, err := q.Exec(ctx, query, cfg.Version, cfg.EffectiveFrom, raw); err != nil {
		return rates.Config{}, fmt.Errorf("failed to save rate configuration: %w", err)
	}
	return cfg, nil
}
