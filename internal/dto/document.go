package dto

import "time"

type PublishMeta struct {
	Subject   string `json:"subjectName"`
	ClassName string `json:"className"`
	School    string `json:"schoolName"`
}

type SearchItem struct {
	ID           string    `json:"id"`
	FileURL      string    `json:"fileUrl"`
	Subject      string    `json:"subjectName"`
	ClassName    string    `json:"className"`
	School       string    `json:"schoolName"`
	OwnerID      string    `json:"academyId"`
	AcademyEmail string    `json:"academyEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SearchResponse struct {
	Data   []SearchItem `json:"data"`
	Source string       `json:"source"`
}

type PublishResponse struct {
	ID        string    `json:"id"`
	FileURL   string    `json:"fileUrl"`
	Subject   string    `json:"subjectName"`
	ClassName string    `json:"className"`
	School    string    `json:"schoolName"`
	CreatedAt time.Time `json:"createdAt"`
}
