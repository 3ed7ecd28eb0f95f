// Package models contains data structures for the application's domain models.
package models

import "time"

// Role determines route and feature access for a profile.
type Role string

const (
	// RoleGuest is the initial role of every profile until its registration
	// request is approved.
	RoleGuest Role = "guest"
	// RoleUser is a regular approved user.
	RoleUser Role = "user"
	// RoleAdmin may review registrations and manage users.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	}
	return false
}

// ApprovalStatus is the approval state of a profile. It is coupled to, but
// distinct from, the status of the profile's registration request.
type ApprovalStatus string

const (
	// ApprovalPending means the profile awaits admin review.
	ApprovalPending ApprovalStatus = "pending"
	// ApprovalApproved means an admin accepted the registration.
	ApprovalApproved ApprovalStatus = "approved"
	// ApprovalDeclined means an admin rejected the registration.
	ApprovalDeclined ApprovalStatus = "declined"
)

// Profile is the identity projection of an account.
//
// Invariant: Role stays RoleGuest until ApprovalStatus transitions to
// ApprovalApproved.
type Profile struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string         `gorm:"size:254;unique;not null" json:"email"`
	PasswordHash   string         `gorm:"not null" json:"-"`
	FullName       *string        `gorm:"size:120" json:"full_name"`
	AvatarURL      *string        `json:"avatar_url"`
	Role           Role           `gorm:"type:varchar(10);not null;default:'guest';index" json:"role"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"approval_status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
