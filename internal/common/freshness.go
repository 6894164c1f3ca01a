package common

import "time"

// Freshness TTLs for externally refreshed data
const (
	FreshnessRates  = 24 * time.Hour // reference rates refresh once per day
	FreshnessQuotes = 1 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
