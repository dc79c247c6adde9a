package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Tariff errors
	ErrTariffNotFound = errors.New("tariff not found")
	ErrTariffInvalid  = errors.New("tariff data invalid")

	// Subscription errors
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrNoActiveSubscription  = errors.New("no active subscription")
	ErrInsufficientSessions  = errors.New("insufficient sessions")
	ErrDuplicateSubscription = errors.New("subscription already created for payment")

	// Redemption code errors
	ErrCodeNotFound    = errors.New("redemption code not found")
	ErrCodeExpired     = errors.New("redemption code expired")
	ErrCodeAlreadyUsed = errors.New("redemption code already used")

	// Operator errors
	ErrOperatorNotAuthorized = errors.New("operator not authorized")

	// Payment errors
	ErrPaymentNotFound = errors.New("payment not found")
	ErrUserNotFound    = errors.New("user not found")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
	ErrGatewayUnavailable      = errors.New("payment gateway unavailable")
)
