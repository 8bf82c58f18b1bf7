package scope

import "gorm.io/gorm"

// OrderByCreatedDesc lists newest records first.
func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// Unread narrows a notification query to rows not yet read.
func Unread(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}
