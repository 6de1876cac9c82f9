package remote

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as HH:MM:SS, rounding to the nearest second.
// Negative and non-finite inputs render as 00:00:00.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
