package composition

import (
	"gqlbench/internal/domain/models"
	"gqlbench/internal/resolve"
)

func (s *Schema) declareEntities() {
	d := s.diagram

	resolve.Define[models.User](d, "User", "A person that owns stories and tasks").
		Field("id", "Int!", func(u models.User) any { return u.ID }).
		Field("name", "String!", func(u models.User) any { return u.Name }).
		Field("level", "String!", func(u models.User) any { return u.Level })

	resolve.Define[models.Team](d, "Team").
		Field("id", "Int!", func(t models.Team) any { return t.ID }).
		Field("name", "String!", func(t models.Team) any { return t.Name }).
		Many("sprints", "Sprint", TeamToSprint, func(t models.Team) resolve.Key { return t.ID }).
		Many("users", "User", TeamToUser, func(t models.Team) resolve.Key { return t.ID })

	resolve.Define[models.Sprint](d, "Sprint").
		Field("id", "Int!", func(sp models.Sprint) any { return sp.ID }).
		Field("name", "String!", func(sp models.Sprint) any { return sp.Name }).
		Field("status", "String!", func(sp models.Sprint) any { return sp.Status }).
		Field("team_id", "Int!", func(sp models.Sprint) any { return sp.TeamID }).
		Many("stories", "Story", SprintToStory, func(sp models.Sprint) resolve.Key { return sp.ID })

	resolve.Define[models.Story](d, "Story").
		Field("id", "Int!", func(st models.Story) any { return st.ID }).
		Field("name", "String!", func(st models.Story) any { return st.Name }).
		Field("owner_id", "Int!", func(st models.Story) any { return st.OwnerID }).
		Field("sprint_id", "Int!", func(st models.Story) any { return st.SprintID }).
		Many("tasks", "Task", StoryToTask, func(st models.Story) resolve.Key { return st.ID }).
		One("owner", "User", UserBatch, func(st models.Story) resolve.Key { return st.OwnerID })

	resolve.Define[models.Task](d, "Task").
		Field("id", "Int!", func(t models.Task) any { return t.ID }).
		Field("name", "String!", func(t models.Task) any { return t.Name }).
		Field("owner_id", "Int!", func(t models.Task) any { return t.OwnerID }).
		Field("story_id", "Int!", func(t models.Task) any { return t.StoryID }).
		Field("estimate", "Int!", func(t models.Task) any { return t.Estimate }).
		One("owner", "User", UserBatch, func(t models.Task) resolve.Key { return t.OwnerID })

	resolve.Define[models.BoolResponse](d, "BoolResponse", "Outcome of a mutation that returns no entity").
		Field("success", "Boolean!", func(b models.BoolResponse) any { return b.Success })
}
