package rates

import (
	"context"
	"errors"
	"log/slog"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/pkg/validator"
)

type ConfigServiceImpl struct {
	configRepo rates.ConfigRepository
}

func NewConfigService(configRepo rates.ConfigRepository) rates.ConfigService {
	return &ConfigServiceImpl{configRepo: configRepo}
}

func (s *ConfigServiceImpl) Save(ctx context.Context, req rates.SaveConfigRequest) (rates.ConfigResponse, error) {
	if err := req.Validate(); err != nil {
		return rates.ConfigResponse{}, err
	}

	saved, err := s.configRepo.Save(ctx, req.ToConfig())
	if err != nil {
		return rates.ConfigResponse{}, err
	}

	slog.Info("rate configuration saved", "version", saved.Version, "effective_from", req.EffectiveFrom)
	return saved.ToResponse(), nil
}

func (s *ConfigServiceImpl) GetEffective(ctx context.Context, month string) (rates.ConfigResponse, error) {
	parsed, ok := validator.IsValidMonth(month)
	if !ok {
		return rates.ConfigResponse{}, validator.ValidationErrors{
			{Field: "month", Message: "must be in YYYY-MM format"},
		}
	}

	cfg, err := s.configRepo.GetEffective(ctx, parsed)
	if err != nil {
		if errors.Is(err, rates.ErrConfigNotFound) {
			// Same fallback the payroll run applies.
			return rates.DefaultConfig().ToResponse(), nil
		}
		return rates.ConfigResponse{}, err
	}
	return cfg.ToResponse(), nil
}
