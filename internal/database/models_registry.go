package database

import "rdfportal/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.RegistrationRequest{},
		&models.SavedQuery{},
		&models.QueryHistory{},
	}
}
