package specification

import "gorm.io/gorm"

// TextSearch filters documents by title or flattened content. ILIKE keeps
// the match case-insensitive on Postgres.
type TextSearch struct {
	Query string
}

func (s TextSearch) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Query + "%"
	return db.Where("documents.title ILIKE ? OR documents.content_markdown ILIKE ?", pattern, pattern)
}

// ByFolderName filters documents by their folder's name (case-insensitive).
// Adds the folders join itself; pair with DocumentOwnedByUser so user_id
// stays unambiguous.
type ByFolderName struct {
	Name string
}

func (s ByFolderName) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Name + "%"
	return db.Joins("JOIN folders ON folders.id = documents.folder_id").
		Where("folders.name ILIKE ?", pattern)
}
