// Command admin provides account management utilities for the RDF Portal.
package main

import (
	"fmt"
	"log"
	"os"

	"rdfportal/internal/config"
	"rdfportal/internal/database"
	"rdfportal/internal/models"
	"rdfportal/internal/seed"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>            - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>             - Demote admin to user")
		fmt.Println("  go run ./cmd/admin create <email> <password>    - Create or reset an admin account")
		fmt.Println("  go run ./cmd/admin list-admins                  - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		requireArgs(3, "promote <user_id>")
		setRole(db, os.Args[2], models.RoleAdmin)

	case "demote":
		requireArgs(3, "demote <user_id>")
		setRole(db, os.Args[2], models.RoleUser)

	case "create":
		requireArgs(4, "create <email> <password>")
		if err := seed.EnsureAdmin(db, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		fmt.Printf("Admin account ready: %s\n", os.Args[2])

	case "list-admins":
		listAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func requireArgs(n int, usage string) {
	if len(os.Args) < n {
		fmt.Printf("Usage: go run ./cmd/admin %s\n", usage)
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, userID string, role models.Role) {
	res := db.Model(&models.Profile{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"role":            role,
			"approval_status": models.ApprovalApproved,
		})
	if res.Error != nil {
		log.Fatalf("Failed to update user: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Fatalf("No user found with id %s", userID)
	}
	fmt.Printf("User %s is now role=%s\n", userID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.Profile
	if err := db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}
	for _, a := range admins {
		name := ""
		if a.FullName != nil {
			name = *a.FullName
		}
		fmt.Printf("%s  %s  %s  active=%v\n", a.ID, a.Email, name, a.IsActive)
	}
}
