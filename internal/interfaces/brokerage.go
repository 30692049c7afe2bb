package interfaces

import (
	"context"

	"wellsfargo-trader/internal/types"
)

// Brokerage is one authenticated web session against the brokerage.
// Login must succeed before Holdings or Transact are called; the
// owning coordinator closes the underlying browser regardless of
// outcome.
type Brokerage interface {
	Login(ctx context.Context, creds types.CredentialSet) error
	Holdings(ctx context.Context) ([]types.HoldingRecord, error)
	Transact(ctx context.Context, order types.OrderRequest) ([]types.OrderOutcome, error)
}
