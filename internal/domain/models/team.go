package models

type Team struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type TeamUser struct {
	TeamID int64 `db:"team_id" json:"team_id"`
	UserID int64 `db:"user_id" json:"user_id"`
}

// TeamMember is a user row tagged with the team it was loaded for.
type TeamMember struct {
	TeamID int64 `db:"team_id"`
	User
}
