package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap stores arbitrary JSON objects in a single column.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	return json.Unmarshal(b, m)
}

// SavedQuery is a query a user chose to keep for later reuse.
type SavedQuery struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  *string   `gorm:"type:text" json:"description"`
	QueryContent JSONMap   `gorm:"type:jsonb" json:"query_content"`
	IsPublic     bool      `gorm:"not null;default:false" json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QueryExecutionStatus is the terminal state of one query execution.
type QueryExecutionStatus string

const (
	// QueryCompleted indicates the execution produced results.
	QueryCompleted QueryExecutionStatus = "completed"
	// QueryFailed indicates the execution errored.
	QueryFailed QueryExecutionStatus = "failed"
)

// QueryHistory records one query execution by an authenticated user.
type QueryHistory struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	UserID          string               `gorm:"type:uuid;not null;index" json:"user_id"`
	QueryContent    JSONMap              `gorm:"type:jsonb" json:"query_content"`
	Results         JSONMap              `gorm:"type:jsonb" json:"results"`
	ExecutionTimeMS int64                `gorm:"not null" json:"execution_time"`
	Status          QueryExecutionStatus `gorm:"type:varchar(10);not null" json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}
