package models

const DefaultSprintStatus = "planning"

type Sprint struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Status string `db:"status" json:"status"`
	TeamID int64  `db:"team_id" json:"team_id"`
}
