/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package orm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/tomoncle/panache/database"
)

var (
	ErrQuerySyntax      = errors.New("orm: malformed query")
	ErrMissingParameter = errors.New("orm: no value bound for named parameter")
	ErrUnusedParameter  = errors.New("orm: parameter not referenced by query")
	ErrNotInitialized   = errors.New("orm: database not initialized")
)

// SyntaxError reports a query rejected before it reached the database.
type SyntaxError struct {
	Query  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("orm: malformed query %q: %s", e.Query, e.Reason)
}

func (e *SyntaxError) Unwrap() error { return ErrQuerySyntax }

// BindingError reports a named parameter that could not be bound.
type BindingError struct {
	Name string
	Err  error // ErrMissingParameter or ErrUnusedParameter
}

func (e *BindingError) Error() string {
	if errors.Is(e.Err, ErrUnusedParameter) {
		return fmt.Sprintf("orm: parameter %q is not referenced by the query", e.Name)
	}
	return fmt.Sprintf("orm: no value bound for parameter :%s", e.Name)
}

func (e *BindingError) Unwrap() error { return e.Err }

// ErrorKind groups failures by what the caller can do about them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindSyntax
	KindBinding
	KindConnectivity
	KindConstraint
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindBinding:
		return "binding"
	case KindConnectivity:
		return "connectivity"
	case KindConstraint:
		return "constraint"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Classify inspects err without altering it.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrQuerySyntax):
		return KindSyntax
	case errors.Is(err, ErrMissingParameter), errors.Is(err, ErrUnusedParameter):
		return KindBinding
	case errors.Is(err, ErrNotInitialized), errors.Is(err, context.DeadlineExceeded):
		return KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}

	ok, sqlErr := database.IsSqlError(err)
	if !ok {
		return KindUnknown
	}
	switch sqlErr {
	case database.SyntaxErr, database.NoColumnErr, database.NoTableErr:
		return KindSyntax
	case database.InvalidTypeCastErr, database.DataTruncatedErr:
		return KindBinding
	case database.ConnectionErr:
		return KindConnectivity
	case database.DuplicateKeyErr, database.NotNullViolationErr,
		database.ForeignKeyViolationErr, database.CheckConstraintViolationErr:
		return KindConstraint
	case database.NoRowsErr:
		return KindNotFound
	}
	return KindUnknown
}
