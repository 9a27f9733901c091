package http

import (
	"errors"
	"net/http"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/settings"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/shared"
)

// statusFor maps the §7 error taxonomy to HTTP status codes, the way the
// CLI (in internal/adapters/cli) maps the same taxonomy to exit codes.
func statusFor(err error) (int, string) {
	var unknownItem *catalog.ErrUnknownItem
	var itemInactive *catalog.ErrItemInactive
	var invalidQuantity *catalog.ErrInvalidQuantity
	var invalidItem *catalog.ErrInvalidItem
	var insufficientFunds *ledger.ErrInsufficientFunds
	var invalidTxn *ledger.ErrInvalidTransaction
	var balanceInvariant *ledger.ErrBalanceInvariantViolation
	var txnNotFound *ledger.ErrTransactionNotFound
	var storageTimeout *ledger.ErrStorageTimeout
	var unrecognizedKey *settings.ErrUnrecognizedKey
	var validationErr *shared.ValidationError
	var notFoundErr *shared.NotFoundError
	var conflictErr *shared.ConflictError
	var storageErr *shared.ErrStorageError
	var engineFault *shared.ErrEngineFault

	switch {
	case errors.As(err, &unknownItem):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &itemInactive):
		return http.StatusConflict, err.Error()
	case errors.As(err, &invalidQuantity), errors.As(err, &invalidItem), errors.As(err, &invalidTxn),
		errors.As(err, &balanceInvariant), errors.As(err, &validationErr), errors.As(err, &unrecognizedKey):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &insufficientFunds):
		return http.StatusConflict, err.Error()
	case errors.As(err, &txnNotFound), errors.As(err, &notFoundErr):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &conflictErr):
		return http.StatusConflict, err.Error()
	case errors.As(err, &storageTimeout), errors.As(err, &storageErr):
		return http.StatusServiceUnavailable, err.Error()
	case errors.As(err, &engineFault):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
