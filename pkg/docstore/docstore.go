// Package docstore defines the whole-document key-value persistence contract
// the engines rely on, plus the error wrapper its implementations share.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Store persists whole JSON documents keyed by name. Reads and writes are
// blocking and atomic per document; there is one logical writer.
type Store interface {
	Load(ctx context.Context, key string) (document []byte, found bool, err error)
	Save(ctx context.Context, key string, document []byte) error
}

// Error values shared by store implementations.
var (
	ErrInvalidKey      = errors.New("invalid document key")
	ErrInvalidDocument = errors.New("invalid document")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
