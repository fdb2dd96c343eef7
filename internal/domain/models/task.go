package models

type Task struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	OwnerID  int64  `db:"owner_id" json:"owner_id"`
	StoryID  int64  `db:"story_id" json:"story_id"`
	Estimate int64  `db:"estimate" json:"estimate"`
}
