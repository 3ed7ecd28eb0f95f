package seed

import (
	"fmt"
	"log"

	"rdfportal/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPending  int
	NumQueries  int
	ShouldClean bool
	// AdminEmail/AdminPassword bootstrap the first admin account. Empty
	// values skip admin creation.
	AdminEmail    string
	AdminPassword string
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d pending registrations...",
		opts.NumUsers, opts.NumPending)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{})

	if opts.AdminEmail != "" && opts.AdminPassword != "" {
		if err := EnsureAdmin(db, opts.AdminEmail, opts.AdminPassword); err != nil {
			return fmt.Errorf("failed to bootstrap admin: %w", err)
		}
		log.Printf("Admin account ensured for %s", opts.AdminEmail)
	}

	// Approved users with matching approved registration requests.
	profiles := make([]*models.Profile, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		profile, err := factory.CreateProfile()
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		if _, err := factory.CreateRegistrationRequest(profile); err != nil {
			return fmt.Errorf("failed to create registration request: %w", err)
		}
		profiles = append(profiles, profile)
	}
	log.Printf("%d approved users created", len(profiles))

	// Guests still waiting for review.
	for i := 0; i < opts.NumPending; i++ {
		profile, err := factory.CreateProfile(func(p *models.Profile) {
			p.Role = models.RoleGuest
			p.ApprovalStatus = models.ApprovalPending
		})
		if err != nil {
			return fmt.Errorf("failed to create pending profile: %w", err)
		}
		if _, err := factory.CreateRegistrationRequest(profile); err != nil {
			return fmt.Errorf("failed to create pending request: %w", err)
		}
	}
	log.Printf("%d pending registrations created", opts.NumPending)

	// Saved queries and history for the approved accounts.
	queries := 0
	for _, profile := range profiles {
		for i := 0; i < opts.NumQueries; i++ {
			if _, err := factory.CreateSavedQuery(profile); err != nil {
				return fmt.Errorf("failed to create saved query: %w", err)
			}
			if _, err := factory.CreateQueryHistory(profile); err != nil {
				return fmt.Errorf("failed to create query history: %w", err)
			}
			queries++
		}
	}
	log.Printf("%d saved queries with history created", queries)

	log.Println("Seeding complete")
	return nil
}

// EnsureAdmin creates (or promotes) an active admin account with the given
// credentials. Safe to call repeatedly.
func EnsureAdmin(db *gorm.DB, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var existing models.Profile
	err = db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return db.Model(&existing).Updates(map[string]any{
			"role":            models.RoleAdmin,
			"approval_status": models.ApprovalApproved,
			"is_active":       true,
			"password_hash":   string(hash),
		}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	factory := NewFactory(db, SeedOptions{})
	name := "Portal Administrator"
	_, err = factory.CreateProfile(func(p *models.Profile) {
		p.Email = email
		p.PasswordHash = string(hash)
		p.FullName = &name
		p.Role = models.RoleAdmin
		p.ApprovalStatus = models.ApprovalApproved
	})
	return err
}

// clearData removes seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.QueryHistory{},
		&models.SavedQuery{},
		&models.RegistrationRequest{},
		&models.Profile{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
