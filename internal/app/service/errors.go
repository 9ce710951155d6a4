package service

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogError wraps every catalog failure. Code carries the store's own
// error code when one is available.
type CatalogError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *CatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

func newCatalogError(op, message string, err error) *CatalogError {
	return &CatalogError{Op: op, Code: providerCode(err), Message: message, Err: err}
}

// OrderError wraps every order persistence failure.
type OrderError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func newOrderError(op, message string, err error) *OrderError {
	return &OrderError{Op: op, Code: providerCode(err), Message: message, Err: err}
}

// providerCode extracts the SQLSTATE or MongoDB code name from err.
func providerCode(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Name
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0 {
		return fmt.Sprintf("%d", writeErr.WriteErrors[0].Code)
	}
	return ""
}
