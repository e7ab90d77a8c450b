// Package authorizer abstracts the external payment authorization system.
// The ledger logic never sees vendor specifics; any real gateway is adapted
// behind the Authorizer interface.
package authorizer

import "context"

// Authorizer approves or declines a payment for an exact amount given a
// payment-authorization token collected by the UI layer.
//
// Authorize returns the external authorization id on success. Failures are
// reported as domain.ErrAuthorizationDeclined (terminal, needs a new token)
// or domain.ErrAuthorizationTimeout (retriable).
type Authorizer interface {
	Authorize(ctx context.Context, token string, amountMinor int64) (string, error)
}
