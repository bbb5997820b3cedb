package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnauthenticated is the AuthenticationError: no acting identity is available.
var ErrUnauthenticated = errors.New("no authenticated identity")

// ErrForbidden indicates an identity without the role an operation requires.
var ErrForbidden = errors.New("identity is not allowed to perform this operation")

// PersistenceError wraps a transport or constraint failure from a read or write.
// Unwrap returns the driver error unchanged.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}

// PartialFailureError reports a balance write that succeeded while the transaction
// record that should accompany it could not be written. The profile and the
// transaction history disagree until someone reconciles them.
type PartialFailureError struct {
	ClientID        uuid.UUID
	Amount          decimal.Decimal
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	ReportID        uuid.UUID // zero when the reconciliation report could not be stored either
	Err             error
}

func (e PartialFailureError) Error() string {
	return fmt.Sprintf("balance of client %s updated to %s but transaction record was not written: %v",
		e.ClientID, e.NewBalance.StringFixed(2), e.Err)
}

func (e PartialFailureError) Unwrap() error {
	return e.Err
}
