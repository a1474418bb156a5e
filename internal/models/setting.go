package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppSetting is a generic keyed configuration row. Values are JSON; the
// settings package exposes the known keys as a typed view.
type AppSetting struct {
	ID          string         `gorm:"primaryKey;size:10" json:"id"`
	Category    string         `gorm:"size:50;not null" json:"category"`
	SettingName string         `gorm:"size:100;not null" json:"setting_name"`
	Value       datatypes.JSON `gorm:"column:setting_value" json:"value"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
