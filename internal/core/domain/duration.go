package domain

// MinutesFromSeconds converts a duration in seconds to minutes, mapping
// negative or missing values to 0.
func MinutesFromSeconds(seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return seconds / 60
}

// MinutesFromMillis converts a duration in milliseconds to minutes, mapping
// negative or missing values to 0.
func MinutesFromMillis(ms float64) float64 {
	if ms <= 0 {
		return 0
	}
	return ms / 60000
}

// SecondsFromMinutes is the inverse used when querying lyrics by duration.
func SecondsFromMinutes(minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	return minutes * 60
}
