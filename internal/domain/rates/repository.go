package rates

import (
	"context"
	"time"
)

// ConfigRepository supplies the rate/bracket configuration in effect for a
// given month. The engine treats the returned snapshot as read-only.
type ConfigRepository interface {
	// GetEffective returns the newest configuration whose effective date is
	// on or before the first day of the given month.
	GetEffective(ctx context.Context, month time.Time) (Config, error)

	// Save stores a new configuration version.
	Save(ctx context.Context, cfg Config) (Config, error)
}
