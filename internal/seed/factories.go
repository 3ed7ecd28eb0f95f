// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"rdfportal/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune factory behavior.
type SeedOptions struct {
	// DryRun builds entities without persisting them.
	DryRun bool
	// SkipBcrypt stores a plaintext marker instead of hashing, for fast
	// local seeding where nobody logs in as the generated accounts.
	SkipBcrypt bool
	// MaxDays spreads created_at over the last N days (default 90).
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// spreadCreatedAt returns a timestamp scattered over the recent past.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateProfile constructs and persists a sample profile. Optional override
// functions may modify the generated profile before saving.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	name := gofakeit.Name()
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
	profile := &models.Profile{
		ID:             uuid.New().String(),
		Email:          gofakeit.Email(),
		FullName:       &name,
		AvatarURL:      &avatar,
		Role:           models.RoleUser,
		IsActive:       true,
		ApprovalStatus: models.ApprovalApproved,
		CreatedAt:      f.spreadCreatedAt(),
	}

	if f.opts.SkipBcrypt {
		profile.PasswordHash = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		profile.PasswordHash = string(hashedPassword)
	}

	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateProfile: %s <%s>", profile.ID, profile.Email)
		return profile, nil
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateRegistrationRequest persists a registration request for the given
// profile. The status defaults to the profile's approval state so seeded data
// stays internally consistent.
func (f *Factory) CreateRegistrationRequest(profile *models.Profile, overrides ...func(*models.RegistrationRequest)) (*models.RegistrationRequest, error) {
	reason := gofakeit.Sentence(12)
	req := &models.RegistrationRequest{
		UserID:    profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Reason:    &reason,
		Status:    models.RegistrationPending,
		CreatedAt: profile.CreatedAt,
	}
	switch profile.ApprovalStatus {
	case models.ApprovalApproved:
		req.Status = models.RegistrationApproved
	case models.ApprovalDeclined:
		req.Status = models.RegistrationRejected
	}

	for _, override := range overrides {
		override(req)
	}

	if f.opts.DryRun {
		f.nextID++
		req.ID = f.nextID
		log.Printf("[dry-run] CreateRegistrationRequest: user=%s status=%s", req.UserID, req.Status)
		return req, nil
	}
	if err := f.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// sampleSPARQL returns a plausible query text for seeded rows.
func (f *Factory) sampleSPARQL() string {
	templates := []string{
		"SELECT ?s ?p ?o WHERE { ?s ?p ?o } LIMIT %d",
		"SELECT ?person WHERE { ?person a <http://example.org/Person> } LIMIT %d",
		"SELECT ?label WHERE { <http://example.org/resource1> <http://www.w3.org/2000/01/rdf-schema#label> ?label } LIMIT %d",
		"SELECT DISTINCT ?type WHERE { ?s a ?type } LIMIT %d",
	}
	return fmt.Sprintf(templates[f.rng.Intn(len(templates))], 5+f.rng.Intn(95))
}

// CreateSavedQuery persists a saved query owned by the given profile.
func (f *Factory) CreateSavedQuery(profile *models.Profile, overrides ...func(*models.SavedQuery)) (*models.SavedQuery, error) {
	desc := gofakeit.Sentence(8)
	q := &models.SavedQuery{
		UserID:       profile.ID,
		Title:        gofakeit.BookTitle(),
		Description:  &desc,
		QueryContent: models.JSONMap{"sparql": f.sampleSPARQL()},
		IsPublic:     f.rng.Intn(4) == 0,
		CreatedAt:    f.spreadCreatedAt(),
	}

	for _, override := range overrides {
		override(q)
	}

	if f.opts.DryRun {
		f.nextID++
		q.ID = f.nextID
		log.Printf("[dry-run] CreateSavedQuery: user=%s title=%q", q.UserID, q.Title)
		return q, nil
	}
	if err := f.db.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

// CreateQueryHistory persists an execution record for the given profile.
func (f *Factory) CreateQueryHistory(profile *models.Profile, overrides ...func(*models.QueryHistory)) (*models.QueryHistory, error) {
	h := &models.QueryHistory{
		UserID:          profile.ID,
		QueryContent:    models.JSONMap{"sparql": f.sampleSPARQL()},
		Results:         models.JSONMap{"head": map[string]any{"vars": []any{"s", "p", "o"}}},
		ExecutionTimeMS: int64(50 + f.rng.Intn(500)),
		Status:          models.QueryCompleted,
		CreatedAt:       f.spreadCreatedAt(),
	}
	if f.rng.Intn(10) == 0 {
		h.Status = models.QueryFailed
		h.Results = nil
	}

	for _, override := range overrides {
		override(h)
	}

	if f.opts.DryRun {
		f.nextID++
		h.ID = f.nextID
		log.Printf("[dry-run] CreateQueryHistory: user=%s status=%s", h.UserID, h.Status)
		return h, nil
	}
	if err := f.db.Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}
