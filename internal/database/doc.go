// Package database provides the data access layer for the station.
//
// The station keeps no catalog in the database: documents come from a static
// JSON source. SQLite only backs what a browser would keep in localStorage,
// one row per key in the settings table:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	└── settings/        # Key/value local storage
//
// # Usage
//
//	db, err := database.NewDatabase("./datastation.db")
//	store := db.Settings()
//	raw, ok, err := store.GetValue(entities.SettingKeyFavorites)
package database
