package rates

import "context"

// ConfigService manages rate/bracket configuration versions.
type ConfigService interface {
	// Save stores a new configuration version. Saving under an existing
	// version label replaces that version.
	Save(ctx context.Context, req SaveConfigRequest) (ConfigResponse, error)

	// GetEffective returns the configuration a payroll run for the month
	// would use, falling back to the built-in defaults when no stored
	// version is effective yet.
	GetEffective(ctx context.Context, month string) (ConfigResponse, error)
}
