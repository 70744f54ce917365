package errorvalues

import "errors"

var (
	ErrAuthMissing       = errors.New("no stored credential")
	ErrValidation        = errors.New("validation failed")
	ErrMalformedResponse = errors.New("malformed response payload")
	ErrSuperseded        = errors.New("superseded by a newer request")
	ErrNoPaymentLink     = errors.New("failed to get a payment link, please try again")
)
