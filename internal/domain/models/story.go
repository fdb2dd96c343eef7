package models

type Story struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	OwnerID  int64  `db:"owner_id" json:"owner_id"`
	SprintID int64  `db:"sprint_id" json:"sprint_id"`
}
