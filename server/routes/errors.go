// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import "fmt"

// NotFoundError signals that a breed, sub-breed or file does not exist, or
// exists without any images.
//
// The error handling middleware answers it with 404 and the error text.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	return e.Detail
}

// NewNotFoundError formats a NotFoundError.
func NewNotFoundError(format string, args ...any) error {
	return &NotFoundError{Detail: fmt.Sprintf(format, args...)}
}
