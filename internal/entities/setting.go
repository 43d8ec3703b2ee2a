package entities

import (
	"time"
)

// Setting is a key/value row. The settings table is the station's durable local storage.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingKeyFavorites = "techwaveFavorites"
	SettingKeyUserToken = "userToken"

	// SettingKeyAnnouncementPrefix is suffixed with the calendar day (YYYY-MM-DD).
	SettingKeyAnnouncementPrefix = "announcementShown_"
)
