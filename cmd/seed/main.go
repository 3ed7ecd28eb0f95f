// Command seed runs the database seeder for the RDF Portal backend.
package main

import (
	"flag"
	"log"

	"rdfportal/internal/config"
	"rdfportal/internal/database"
	"rdfportal/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of approved users to create")
	numPending := flag.Int("pending", 5, "Number of pending registrations to create")
	numQueries := flag.Int("queries", 4, "Saved queries (with history) per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	adminEmail := flag.String("admin-email", "admin@rdfportal.dev", "Bootstrap admin email (empty to skip)")
	adminPassword := flag.String("admin-password", "password123", "Bootstrap admin password")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d pending, %d queries/user, clean=%v\n",
		*numUsers, *numPending, *numQueries, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:      *numUsers,
		NumPending:    *numPending,
		NumQueries:    *numQueries,
		ShouldClean:   *shouldClean,
		AdminEmail:    *adminEmail,
		AdminPassword: *adminPassword,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All generated users have the password: password123")
}
