// Package audit records one line per attempted liquidation in an
// append-only trail.
package audit

import (
	"context"

	"liquidationScope/internal/model"
)

// Sink receives liquidation outcomes. Appends are never retracted.
type Sink interface {
	Append(ctx context.Context, outcome model.LiquidationOutcome) error
}
