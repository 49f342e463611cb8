package services

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL error numbers that signal a conflict worth retrying the whole
// transaction for.
const (
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

const defaultTxAttempts = 3

// IsRetryableTxError reports whether err is a serialization conflict
// (deadlock or lock-wait timeout) that a fresh transaction attempt may
// resolve.
func IsRetryableTxError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrDeadlock || mysqlErr.Number == mysqlErrLockWaitTimeout
	}
	return false
}

// RunInTxWithRetry runs fn inside a database transaction and re-runs the
// whole read-compute-write body when the commit loses a concurrency conflict.
// Each attempt starts from a fresh read, so the retrying writer observes
// whatever the competing writer committed. Non-retryable errors and exhausted
// attempts are returned as-is.
func RunInTxWithRetry(db *gorm.DB, maxAttempts int, fn func(tx *gorm.DB) error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultTxAttempts
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !IsRetryableTxError(err) {
			return err
		}
		if attempt < maxAttempts {
			time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
		}
	}
	return err
}
