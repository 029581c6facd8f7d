package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidPlan          = errors.New("invalid plan type")
	ErrPaymentNotCompleted  = errors.New("payment not completed")
	ErrMissingUserID        = errors.New("no user id in session metadata")
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrRateLimited          = errors.New("rate limit exceeded")
	ErrOperationFailed      = errors.New("operation failed")
	ErrReadDatabaseRow      = errors.New("failed to read database row")
)

// GatewayError carries the remote error detail from a failed payment
// provider call. Callers should surface a generic message to end users and
// log the detail.
type GatewayError struct {
	StatusCode int
	Detail     string
}

func (e *GatewayError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("payment gateway error (http %d)", e.StatusCode)
	}
	return fmt.Sprintf("payment gateway error (http %d): %s", e.StatusCode, e.Detail)
}

// IsGatewayError reports whether err wraps a *GatewayError.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
