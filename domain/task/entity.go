package task

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusDone}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", raw)
	}
	return s, nil
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          string `gorm:"primaryKey;type:text"`
	Title       string `gorm:"not null;type:text"`
	Description string `gorm:"not null;type:text"`
	Status      Status `gorm:"not null;type:text;index"`
	UserID      string `gorm:"not null;type:text;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// Filter narrows a task listing. Zero values mean no constraint.
type Filter struct {
	Status Status `json:"status,omitempty"`
	Search string `json:"search,omitempty"`
}

// CreateInput carries the fields supplied when creating a task.
type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
