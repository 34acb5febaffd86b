package entities

import "time"

type Document struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	FileURL   string    `db:"file_url"`
	Subject   string    `db:"subject"`
	ClassName string    `db:"class_name"`
	School    string    `db:"school"`
	CreatedAt time.Time `db:"created_at"`
}
