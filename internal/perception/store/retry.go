package store

import (
	"strings"
	"time"
)

const (
	maxBusyRetries = 5
	busyBaseDelay  = 10 * time.Millisecond
)

// isSQLiteBusy reports whether err is a transient SQLite lock contention
// error worth retrying.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy runs op, retrying with exponential backoff while it fails
// with a busy error. Non-busy errors fail immediately.
func retryOnBusy(op func() error) error {
	var err error
	delay := busyBaseDelay
	for attempt := 0; attempt < maxBusyRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		err = op()
		if err == nil || !isSQLiteBusy(err) {
			return err
		}
	}
	return err
}
