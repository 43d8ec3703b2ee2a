package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the local storage database
	DefaultDatabasePath = "./datastation.db"

	// DefaultCatalogSource is the catalog served when CATALOG_SOURCE is not set
	DefaultCatalogSource = "./data/pdf-list.json"

	// DefaultAnnouncementPath is the notice shown once per day
	DefaultAnnouncementPath = "./data/announcement.txt"
)
