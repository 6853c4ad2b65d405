package db

import (
	"time"

	"github.com/iqbalri06/bot-jadwal/permission"
)

type User struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PhoneNumber string          `gorm:"uniqueIndex;not null" json:"phone_number"`
	Name        string          `gorm:"not null" json:"name"`
	Role        permission.Role `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Task deadlines are calendar dates stored as YYYY-MM-DD. PhotoPath is the
// single photo of tasks created before TaskPhoto existed.
type Task struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Deadline  string    `gorm:"type:varchar(10);not null;index" json:"deadline"`
	PhotoPath *string   `json:"photo_path,omitempty"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	CreatorName string `gorm:"->;-:migration" json:"creator_name,omitempty"`
}

type TaskStatus struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TaskID      uint       `gorm:"not null;uniqueIndex:idx_task_user" json:"task_id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_task_user;index" json:"user_id"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type TaskPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;index" json:"task_id"`
	PhotoPath string    `gorm:"not null" json:"photo_path"`
	CreatedAt time.Time `json:"created_at"`
}

// Device is the linked WhatsApp account.
type Device struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`
	Status    string    `gorm:"default:'disconnected'" json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DeviceConnected    = "connected"
	DeviceDisconnected = "disconnected"
	DeviceLoggedOut    = "logged_out"
)

// Message is an outbound text sent through the admin API.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ToPhone   string    `gorm:"not null" json:"to_phone"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Status    string    `gorm:"default:'queued';index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	MessageQueued = "queued"
	MessageSent   = "sent"
	MessageFailed = "failed"
)

// Conversation persists one open chat flow per sender.
type Conversation struct {
	Sender    string    `gorm:"primaryKey;size:64"`
	Flow      string    `gorm:"size:32;not null"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// UserTask is a task as seen by one user.
type UserTask struct {
	Task
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CompletionEntry is one row of a task's completion report.
type CompletionEntry struct {
	UserID      uint       `json:"user_id"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskProgress summarizes completion counts for the admin API.
type TaskProgress struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Deadline  string `json:"deadline"`
	Assigned  int64  `json:"assigned"`
	Completed int64  `json:"completed"`
}

func models() []any {
	return []any{
		&User{}, &Task{}, &TaskStatus{}, &TaskPhoto{},
		&Device{}, &Message{}, &Conversation{},
	}
}
