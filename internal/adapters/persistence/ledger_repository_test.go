package persistence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
)

func TestWrapIfTransient_RecognizesKnownTransientConditions(t *testing.T) {
	cases := []string{
		"database is locked",
		"SQLITE_BUSY: database is locked",
		"deadlock detected",
		"pq: could not serialize access due to concurrent update: serialization failure",
		"read tcp: connection reset by peer",
		"dial tcp: connection refused",
		"write: broken pipe",
		"FATAL: sorry, too many connections for role",
	}

	for _, msg := range cases {
		err := wrapIfTransient(errors.New(msg))
		assert.True(t, ledger.IsTransient(err), "expected %q to be classified transient", msg)
	}
}

func TestWrapIfTransient_LeavesUnrecognizedErrorsPermanent(t *testing.T) {
	err := wrapIfTransient(errors.New("UNIQUE constraint failed: transactions.id"))
	assert.False(t, ledger.IsTransient(err))
}

func TestWrapIfTransient_PassesThroughNil(t *testing.T) {
	assert.Nil(t, wrapIfTransient(nil))
}
