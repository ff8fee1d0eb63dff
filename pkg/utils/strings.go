package utils

// TruncateString shortens s to at most max bytes.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
