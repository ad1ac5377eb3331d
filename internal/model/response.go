package model

import (
	"time"
	"unicode/utf8"
)

// MaxResponseData is the number of characters of a fetched body that are kept.
const MaxResponseData = 500

// ApiResponse is a stored copy of a fetched API body.
type ApiResponse struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Data        string    `gorm:"type:text;not null" json:"data"`
	RetrievedAt time.Time `gorm:"not null;index" json:"retrieved_at"`
}

// TableName pins the table name used by the ORM.
func (ApiResponse) TableName() string {
	return "api_responses"
}

// NewApiResponse builds a record from a fetched body, keeping at most
// MaxResponseData characters.
func NewApiResponse(body string, retrievedAt time.Time) *ApiResponse {
	return &ApiResponse{
		Data:        Truncate(body, MaxResponseData),
		RetrievedAt: retrievedAt,
	}
}

// Truncate returns the first n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
