package telegram

import (
	"fmt"
	"strings"
)

// FormatTaskFailure builds the Markdown message sent when a task ends in ERROR.
func FormatTaskFailure(taskType, ticker, errMsg string, attempts, maxAttempts int) string {
	var b strings.Builder
	b.WriteString("⚠️ *Task failed*\n")
	b.WriteString(fmt.Sprintf("*Type:* %s\n", taskType))
	if ticker != "" {
		b.WriteString(fmt.Sprintf("*Ticker:* %s\n", ticker))
	}
	b.WriteString(fmt.Sprintf("*Attempt:* %d/%d\n", attempts, maxAttempts))

	const maxErrLen = 500
	if len(errMsg) > maxErrLen {
		errMsg = errMsg[:maxErrLen] + "..."
	}
	b.WriteString(fmt.Sprintf("*Error:* `%s`", errMsg))
	return b.String()
}
