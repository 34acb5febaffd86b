package models

import "time"

type Document struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	FileURL   string    `json:"file_url"`
	Subject   string    `json:"subject"`
	ClassName string    `json:"class_name"`
	School    string    `json:"school"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is one enriched row of a search response. Rows are cached
// in this exact form, so a cache hit is returned verbatim.
type SearchResult struct {
	ID           string    `json:"id"`
	FileURL      string    `json:"fileUrl"`
	Subject      string    `json:"subjectName"`
	ClassName    string    `json:"className"`
	School       string    `json:"schoolName"`
	OwnerID      string    `json:"academyId"`
	AcademyEmail string    `json:"academyEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	SourceCache    = "cache"
	SourceDatabase = "database"
)

// UnknownOwnerEmail substitutes for owners that can no longer be resolved.
const UnknownOwnerEmail = "Unknown"
