package pathutil

import (
	"time"

	"github.com/google/uuid"
)

// UniqueID returns a "yymmdd_HHMMSS_<uuid>" token suitable as a suffix for
// generated files; the timestamp prefix keeps listings in creation order.
func UniqueID(now time.Time) string {
	return now.Format("060102_150405") + "_" + uuid.NewString()
}
