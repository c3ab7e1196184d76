// models/submission.go - Contact form submission entity
package models

import "time"

// Submission statuses form a closed set. Anything else is rejected at the
// handler boundary before it reaches a store.
const (
	StatusNew       = "new"
	StatusRead      = "read"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusArchived  = "archived"
)

var validStatuses = []string{
	StatusNew,
	StatusRead,
	StatusContacted,
	StatusConverted,
	StatusArchived,
}

// ValidStatuses returns the allowed status values in display order.
func ValidStatuses() []string {
	out := make([]string, len(validStatuses))
	copy(out, validStatuses)
	return out
}

// IsStatusValid reports whether s is one of the allowed status values.
func IsStatusValid(s string) bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Location is the coarse geographic data attached to a submission during
// enrichment. Fields default to "Unknown", or "Local" for loopback origins.
type Location struct {
	City    string  `gorm:"column:geo_city" json:"city"`
	Region  string  `gorm:"column:geo_region" json:"region"`
	Country string  `gorm:"column:geo_country" json:"country"`
	Lat     float64 `gorm:"column:geo_lat" json:"lat"`
	Lng     float64 `gorm:"column:geo_lng" json:"lng"`
}

// UnknownLocation is the placeholder used when the geo lookup fails.
func UnknownLocation() Location {
	return Location{City: "Unknown", Region: "Unknown", Country: "Unknown"}
}

// LocalLocation is the placeholder used for loopback/private origins.
func LocalLocation() Location {
	return Location{City: "Local", Region: "Local", Country: "Local"}
}

// Submission represents the submissions table
type Submission struct {
	ID            string     `gorm:"primaryKey;column:submission_id;type:varchar(36)" json:"id"`
	Name          string     `gorm:"column:name;type:varchar(100)" json:"name"`
	Email         string     `gorm:"column:email;type:varchar(150);index" json:"email"`
	Subject       string     `gorm:"column:subject;type:varchar(200)" json:"subject"`
	Message       string     `gorm:"column:message;type:text" json:"message"`
	OriginAddress string     `gorm:"column:origin_address;type:varchar(64)" json:"originAddress"`
	UserAgent     string     `gorm:"column:user_agent;type:varchar(512)" json:"userAgent"`
	Location      Location   `gorm:"embedded" json:"location"`
	Status        string     `gorm:"column:status;type:varchar(20);default:'new';index" json:"status"`
	Notes         string     `gorm:"column:notes;type:text" json:"notes"`
	RepliedAt     *time.Time `gorm:"column:replied_at" json:"repliedAt,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"createdAt"`

	// TimeAgo is derived from CreatedAt at read time and never persisted.
	TimeAgo string `gorm:"-" json:"timeAgo,omitempty"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}
