package entity

import "time"

// SchemaVersion version stamped on every stored record. Bump together with a migration.
const SchemaVersion = 1

// StoreTime normalizes t to the precision kept by the store (UTC, microseconds).
func StoreTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
