package flow

import (
	"fmt"
	"strings"
)

const (
	progressFilled = "⬢"
	progressEmpty  = "⬡"
)

// ProgressBar renders the HTML progress header for the given question number.
func ProgressBar(current int) string {
	current = min(max(current, 0), TotalSteps)
	percent := float64(current) / float64(TotalSteps) * 100

	var b strings.Builder
	b.WriteString("\n\n<b>Прогресс заполнения анкеты:</b>\n")
	b.WriteString(strings.Repeat(progressFilled, current))
	b.WriteString(strings.Repeat(progressEmpty, TotalSteps-current))
	fmt.Fprintf(&b, " %d/%d (%.0f%%)\n\n", current, TotalSteps, percent)
	return b.String()
}
