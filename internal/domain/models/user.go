package models

const DefaultUserLevel = "user"

type User struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Level string `db:"level" json:"level"`
}

// BoolResponse wraps the outcome of mutations that have no entity to return.
type BoolResponse struct {
	Success bool `json:"success"`
}
