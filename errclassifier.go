// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"errors"

	"github.com/bassosimone/errclass"
)

// ErrClassifier classifies errors into categorical strings for analysis.
//
// Implementations map errors to short, descriptive labels (e.g., "EADDRSYNTAX",
// "ENOENT") that make it easy to aggregate failures in structured logs.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
//
// This allows using simple functions as classifiers:
//
//	cfg.ErrClassifier = ErrClassifierFunc(errclass.New)
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// EADDRSYNTAX is the class of an [*AddressParseError].
const EADDRSYNTAX = "EADDRSYNTAX"

// DefaultErrClassifier returns "" for nil, [EADDRSYNTAX] for errors
// wrapping an [*AddressParseError], and defers to [errclass.New] otherwise.
var DefaultErrClassifier = ErrClassifierFunc(func(err error) string {
	if err == nil {
		return ""
	}
	var perr *AddressParseError
	if errors.As(err, &perr) {
		return EADDRSYNTAX
	}
	return errclass.New(err)
})
