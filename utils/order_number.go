package utils

import (
	"fmt"
	"time"
)

// OrderNumberPrefix returns the prefix shared by all order numbers of a year, e.g. "PO-2026-".
func OrderNumberPrefix(t time.Time) string {
	return fmt.Sprintf("PO-%d-", t.Year())
}

// OrderNumberLess orders order numbers by their sequence. Sequences are zero
// padded to four digits but grow past 9999, so a longer number is always later.
func OrderNumberLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// NextOrderNumber generates the order number following last in the format
// PO-YYYY-NNNN, where YYYY is the year of now and NNNN a sequence restarting at
// 0001 every year. An empty or unparsable last number starts a new sequence.
func NextOrderNumber(last string, now time.Time) string {
	prefix := OrderNumberPrefix(now)

	var lastSeq int
	if last != "" {
		if _, err := fmt.Sscanf(last, prefix+"%d", &lastSeq); err != nil {
			lastSeq = 0
		}
	}

	return fmt.Sprintf("%s%04d", prefix, lastSeq+1)
}
