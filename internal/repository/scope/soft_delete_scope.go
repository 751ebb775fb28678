package scope

import "gorm.io/gorm"

// ExcludeSoftDelete keeps soft-deleted rows out of raw-SQL queries that
// bypass GORM's default scoping.
func ExcludeSoftDelete(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}
