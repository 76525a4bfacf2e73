package workspace

import (
	"fmt"
	"time"
)

const dueDateLayout = "2006-01-02"

// IsDue reports whether a due date needs a reminder as of now: exactly 7,
// 3, or 1 whole calendar days ahead, or strictly in the past. A due date
// of today is not flagged.
func IsDue(dueDate string, now time.Time) (bool, error) {
	due, err := time.ParseInLocation(dueDateLayout, dueDate, time.UTC)
	if err != nil {
		return false, fmt.Errorf("parse due date %q: %w", dueDate, err)
	}

	nowUTC := now.UTC()
	today := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today) / (24 * time.Hour))

	return days == 7 || days == 3 || days == 1 || days < 0, nil
}
