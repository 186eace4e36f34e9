// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import "time"

// DefaultQualifier is the package qualifier used by synthesized code.
const DefaultQualifier = "sockaddr"

// Config holds common configuration for the expansion pipeline.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Qualifier is the package name prefixed to the identifiers of the
	// synthesized constructor calls. Use "" when the generated code lives
	// inside this package.
	//
	// Set by [NewConfig] to [DefaultQualifier].
	Qualifier string

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		ErrClassifier: DefaultErrClassifier,
		Qualifier:     DefaultQualifier,
		TimeNow:       time.Now,
	}
}
