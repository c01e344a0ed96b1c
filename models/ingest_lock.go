package models

import "gorm.io/gorm"

// Application-wide advisory lock key for ingestion runs.
const ingestLockKey = 0x63617274

// WithIngestLock runs fn while holding a Postgres advisory lock, so two
// ingestion runs can never interleave writes against the same store. The
// lock is session-scoped, hence the pinned connection.
func WithIngestLock(db *gorm.DB, fn func() error) error {
	return db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(?)", ingestLockKey).Error; err != nil {
			return err
		}
		defer conn.Exec("SELECT pg_advisory_unlock(?)", ingestLockKey)
		return fn()
	})
}
