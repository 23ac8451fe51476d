package middleware

import "strings"

// PermissionHint appends an operational hint when an error looks like a
// database permission failure (SQLSTATE 42501), the one failure mode
// that reads as "transient" but never fixes itself.
func PermissionHint(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if strings.Contains(msg, "permission denied") || strings.Contains(msg, "42501") {
		return " (hint: check grants for the application database role)"
	}
	return ""
}
