// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selection

import (
	"errors"
	"fmt"

	"github.com/rawvie-ngit/mesh-common/meshvalue"
)

var (
	// ErrInsufficientFunds is returned when the candidates cannot cover the
	// requirement even after all of them have been considered. The
	// concrete error is an *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnsupportedRequirement is returned when a strategy is given a
	// requirement it cannot work on, e.g. tokens for a lovelace-only
	// strategy.
	ErrUnsupportedRequirement = errors.New("unsupported requirement")

	// ErrUnknownStrategy is returned when a strategy name does not match any
	// known strategy.
	ErrUnknownStrategy = errors.New("unknown selection strategy")

	// ErrInvalidRequest is returned when a request is missing its
	// requirement or carries malformed candidates.
	ErrInvalidRequest = errors.New("invalid selection request")
)

// ErrorCode identifies a kind of selection error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrCodeInvalidRequest indicates a malformed request.
	ErrCodeInvalidRequest ErrorCode = iota

	// ErrCodeUnsupportedRequirement indicates a requirement the strategy
	// cannot handle.
	ErrCodeUnsupportedRequirement

	// ErrCodeUnknownStrategy indicates an unrecognised strategy name.
	ErrCodeUnknownStrategy

	// ErrCodeInsufficientFunds indicates the candidates fall short.
	ErrCodeInsufficientFunds
)

// String returns the code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidRequest:
		return "ErrCodeInvalidRequest"
	case ErrCodeUnsupportedRequirement:
		return "ErrCodeUnsupportedRequirement"
	case ErrCodeUnknownStrategy:
		return "ErrCodeUnknownStrategy"
	case ErrCodeInsufficientFunds:
		return "ErrCodeInsufficientFunds"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// Error identifies a selection error. It has an error code and a
// descriptive message.
type Error struct {
	Code ErrorCode
	Desc string
	Err  error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err == nil {
		return e.Desc
	}

	return e.Desc + ": " + e.Err.Error()
}

// Unwrap returns the underlying error, if any.
func (e Error) Unwrap() error {
	return e.Err
}

// newError creates an Error given a set of arguments.
func newError(c ErrorCode, desc string, err error) Error {
	return Error{Code: c, Desc: desc, Err: err}
}

// InsufficientFundsError is returned when a strategy runs out of candidates.
// It tells the caller how much of every unit was still missing, fee buffer
// included, so one can top up the candidate set accordingly.
type InsufficientFundsError struct {
	// Strategy is the strategy that failed.
	Strategy StrategyName

	// Unmet holds the missing quantity of every unit still short. The
	// lovelace entry includes the threshold and fee buffer.
	Unmet *meshvalue.Value

	// Selected is the number of candidates accepted before giving up.
	Selected int

	// Candidates is the number of candidates considered.
	Candidates int
}

// Error returns a human-readable description of the shortfall.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%v: %v after selecting %d of %d candidates, "+
		"missing %v", e.Strategy, ErrInsufficientFunds, e.Selected,
		e.Candidates, e.Unmet)
}

// Unwrap lets errors.Is match ErrInsufficientFunds.
func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// Code returns ErrCodeInsufficientFunds.
func (e *InsufficientFundsError) Code() ErrorCode {
	return ErrCodeInsufficientFunds
}

// CodeOf returns the code carried by a selection error, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var insufficient *InsufficientFundsError
	if errors.As(err, &insufficient) {
		return insufficient.Code(), true
	}

	var selErr Error
	if errors.As(err, &selErr) {
		return selErr.Code, true
	}

	return 0, false
}
