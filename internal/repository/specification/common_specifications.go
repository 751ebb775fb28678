package specification

import "gorm.io/gorm"

// Pagination windows a result set. Zero values mean no limit.
type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
