package models

import "time"

// Quote and Invoice are append-only historical records: created when a
// document is sent, never edited or deleted. BodyHTML stores the generated
// document verbatim so the PDF can be reproduced later without re-running the
// generator.

type Quote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"index;not null" json:"client_id"`
	Number    string    `gorm:"size:50;not null" json:"number"`
	IssueDate time.Time `gorm:"not null" json:"issue_date"`
	BodyHTML  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Invoice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClientID  uint      `gorm:"index;not null" json:"client_id"`
	Number    string    `gorm:"size:50;not null" json:"number"`
	IssueDate time.Time `gorm:"not null" json:"issue_date"`
	BodyHTML  string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
