package model

import "gorm.io/gorm"

// Setting is one string valued setting scoped to a project.
// The value is stored encoded with the named compression.
type Setting struct {
	gorm.Model
	ProjectID   string `gorm:"size:36;not null;uniqueIndex:project_setting_name"`
	Name        string `gorm:"size:191;not null;uniqueIndex:project_setting_name"`
	Value       []byte
	Compression string `gorm:"size:16"`
}

func (Setting) TableName() string {
	return "settings"
}

// Migrate creates or updates the settings table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Setting{})
}
