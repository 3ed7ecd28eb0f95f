package models

import "time"

// RegistrationStatus defines lifecycle states for registration requests.
type RegistrationStatus string

const (
	// RegistrationPending indicates the request is awaiting review.
	RegistrationPending RegistrationStatus = "pending"
	// RegistrationApproved indicates the request was accepted.
	RegistrationApproved RegistrationStatus = "approved"
	// RegistrationRejected indicates the request was denied.
	RegistrationRejected RegistrationStatus = "rejected"
)

// Terminal reports whether s is a final state. Approved and rejected
// requests never transition again.
func (s RegistrationStatus) Terminal() bool {
	return s == RegistrationApproved || s == RegistrationRejected
}

// RegistrationRequest is created alongside a Profile at sign-up and reviewed
// by an admin. At most one pending request exists per user at a time.
type RegistrationRequest struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	UserID     string             `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *Profile           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Email      string             `gorm:"size:254;not null" json:"email"`
	FullName   *string            `gorm:"size:120" json:"full_name"`
	Reason     *string            `gorm:"type:text" json:"reason"`
	Status     RegistrationStatus `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	ReviewedBy *string            `gorm:"type:uuid" json:"reviewed_by"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}
