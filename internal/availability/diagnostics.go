package availability

import "strings"

// categorizeCalendarError classifies a Calendar API error into a short
// diagnostic reason surfaced in provider error messages. Grounded on
// the prior internal/calendar.categorizeCalendarError.
func categorizeCalendarError(err error) string {
	if err == nil {
		return ""
	}

	errStr := err.Error()
	if errStr == "" {
		return "unknown"
	}

	switch {
	case strings.Contains(errStr, "404") || strings.Contains(errStr, "notFound") || strings.Contains(errStr, "Not Found"):
		return "no_calendar"
	case strings.Contains(errStr, "403") || strings.Contains(errStr, "Forbidden") || strings.Contains(errStr, "Permission denied"):
		return "permission_denied"
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "Unauthorized"):
		return "unauthorized"
	default:
		return "unknown"
	}
}
