package composition

import (
	"context"
	"errors"
	"fmt"

	"gqlbench/internal/apperrors"
	"gqlbench/internal/domain/models"
	"gqlbench/internal/resolve"
)

var (
	idArg       = resolve.Arg{Name: "id", Type: "Int!"}
	nameArg     = resolve.Arg{Name: "name", Type: "String!"}
	optNameArg  = resolve.Arg{Name: "name", Type: "String"}
	teamIDArg   = resolve.Arg{Name: "team_id", Type: "Int!"}
	userIDArg   = resolve.Arg{Name: "user_id", Type: "Int!"}
	ownerIDArg  = resolve.Arg{Name: "owner_id", Type: "Int!"}
	optOwnerArg = resolve.Arg{Name: "owner_id", Type: "Int"}
)

func (s *Schema) declareMutations() {
	s.declareUserMutations()
	s.declareTeamMutations()
	s.declareSprintMutations()
	s.declareStoryMutations()
	s.declareTaskMutations()
}

// publicErrors are reported to clients by their own message, without the
// call chain they were wrapped in.
var publicErrors = []error{
	apperrors.ErrNameRequired,
	apperrors.ErrInvalidEstimate,
	apperrors.ErrMemberExists,
	apperrors.ErrOwnerNotFound,
	apperrors.ErrReferenceNotFound,
	apperrors.ErrUserNotFound,
	apperrors.ErrTeamNotFound,
	apperrors.ErrSprintNotFound,
	apperrors.ErrStoryNotFound,
	apperrors.ErrTaskNotFound,
}

func publicError(err error) error {
	for _, target := range publicErrors {
		if errors.Is(err, target) {
			return target
		}
	}
	return err
}

func (s *Schema) mutation(f resolve.RootField) {
	resolveFn := f.Resolve
	f.Resolve = func(ctx context.Context, args map[string]any) (any, error) {
		v, err := resolveFn(ctx, args)
		if err != nil {
			return nil, publicError(err)
		}
		return v, nil
	}
	s.diagram.Mutation(f)
}

// missing turns a not-found error into a null result.
func missing(v any, err error) (any, error) {
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrTeamNotFound),
		errors.Is(err, apperrors.ErrSprintNotFound),
		errors.Is(err, apperrors.ErrStoryNotFound),
		errors.Is(err, apperrors.ErrTaskNotFound):
		return nil, nil
	}
	return nil, err
}

func boolResult(ok bool, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return models.BoolResponse{Success: ok}, nil
}

func requiredInt(args map[string]any, name string) (int64, error) {
	n, ok, err := resolve.ArgInt(args, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", apperrors.ErrInvalidID, name)
	}
	return n, nil
}

func (s *Schema) declareUserMutations() {
	s.mutation(resolve.RootField{
		Name:    "create_user",
		Target:  "User",
		NonNull: true,
		Args:    []resolve.Arg{nameArg, {Name: "level", Type: "String", Default: `"user"`}},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			name, _ := resolve.ArgString(args, "name")
			level, _ := resolve.ArgString(args, "level")
			return s.deps.UserService.CreateUser(ctx, name, level)
		},
	})

	s.mutation(resolve.RootField{
		Name:   "update_user",
		Target: "User",
		Args:   []resolve.Arg{idArg, optNameArg, {Name: "level", Type: "String"}},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return missing(s.deps.UserService.UpdateUser(ctx, id,
				resolve.OptString(args, "name"), resolve.OptString(args, "level")))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "delete_user",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{idArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.UserService.DeleteUser(ctx, id))
		},
	})
}

func (s *Schema) declareTeamMutations() {
	s.mutation(resolve.RootField{
		Name:    "create_team",
		Target:  "Team",
		NonNull: true,
		Args:    []resolve.Arg{nameArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			name, _ := resolve.ArgString(args, "name")
			return s.deps.TeamService.CreateTeam(ctx, name)
		},
	})

	s.mutation(resolve.RootField{
		Name:   "update_team",
		Target: "Team",
		Args:   []resolve.Arg{idArg, optNameArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return missing(s.deps.TeamService.UpdateTeam(ctx, id, resolve.OptString(args, "name")))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "delete_team",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{idArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.TeamService.DeleteTeam(ctx, id))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "add_team_member",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{teamIDArg, userIDArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			teamID, err := requiredInt(args, "team_id")
			if err != nil {
				return nil, err
			}
			userID, err := requiredInt(args, "user_id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.TeamService.AddMember(ctx, teamID, userID))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "remove_team_member",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{teamIDArg, userIDArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			teamID, err := requiredInt(args, "team_id")
			if err != nil {
				return nil, err
			}
			userID, err := requiredInt(args, "user_id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.TeamService.RemoveMember(ctx, teamID, userID))
		},
	})
}

func (s *Schema) declareSprintMutations() {
	s.mutation(resolve.RootField{
		Name:    "create_sprint",
		Target:  "Sprint",
		NonNull: true,
		Args:    []resolve.Arg{teamIDArg, nameArg, {Name: "status", Type: "String", Default: `"planning"`}},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			teamID, err := requiredInt(args, "team_id")
			if err != nil {
				return nil, err
			}
			name, _ := resolve.ArgString(args, "name")
			status, _ := resolve.ArgString(args, "status")
			return s.deps.TeamService.CreateSprint(ctx, teamID, name, status)
		},
	})

	s.mutation(resolve.RootField{
		Name:   "update_sprint",
		Target: "Sprint",
		Args:   []resolve.Arg{idArg, optNameArg, {Name: "status", Type: "String"}},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return missing(s.deps.TeamService.UpdateSprint(ctx, id,
				resolve.OptString(args, "name"), resolve.OptString(args, "status")))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "delete_sprint",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{idArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.TeamService.DeleteSprint(ctx, id))
		},
	})
}

func (s *Schema) declareStoryMutations() {
	s.mutation(resolve.RootField{
		Name:    "create_story",
		Target:  "Story",
		NonNull: true,
		Args:    []resolve.Arg{{Name: "sprint_id", Type: "Int!"}, nameArg, ownerIDArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			sprintID, err := requiredInt(args, "sprint_id")
			if err != nil {
				return nil, err
			}
			ownerID, err := requiredInt(args, "owner_id")
			if err != nil {
				return nil, err
			}
			name, _ := resolve.ArgString(args, "name")
			return s.deps.StoryService.CreateStory(ctx, sprintID, name, ownerID)
		},
	})

	s.mutation(resolve.RootField{
		Name:   "update_story",
		Target: "Story",
		Args:   []resolve.Arg{idArg, optNameArg, optOwnerArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			ownerID, err := resolve.OptInt(args, "owner_id")
			if err != nil {
				return nil, err
			}
			return missing(s.deps.StoryService.UpdateStory(ctx, id, resolve.OptString(args, "name"), ownerID))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "delete_story",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{idArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.StoryService.DeleteStory(ctx, id))
		},
	})
}

func (s *Schema) declareTaskMutations() {
	s.mutation(resolve.RootField{
		Name:    "create_task",
		Target:  "Task",
		NonNull: true,
		Args: []resolve.Arg{
			{Name: "story_id", Type: "Int!"},
			nameArg,
			ownerIDArg,
			{Name: "estimate", Type: "Int", Default: "0"},
		},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			storyID, err := requiredInt(args, "story_id")
			if err != nil {
				return nil, err
			}
			ownerID, err := requiredInt(args, "owner_id")
			if err != nil {
				return nil, err
			}
			estimate, _, err := resolve.ArgInt(args, "estimate")
			if err != nil {
				return nil, err
			}
			name, _ := resolve.ArgString(args, "name")
			return s.deps.StoryService.CreateTask(ctx, storyID, name, ownerID, estimate)
		},
	})

	s.mutation(resolve.RootField{
		Name:   "update_task",
		Target: "Task",
		Args:   []resolve.Arg{idArg, optNameArg, optOwnerArg, {Name: "estimate", Type: "Int"}},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			ownerID, err := resolve.OptInt(args, "owner_id")
			if err != nil {
				return nil, err
			}
			estimate, err := resolve.OptInt(args, "estimate")
			if err != nil {
				return nil, err
			}
			return missing(s.deps.StoryService.UpdateTask(ctx, id, resolve.OptString(args, "name"), ownerID, estimate))
		},
	})

	s.mutation(resolve.RootField{
		Name:    "delete_task",
		Target:  "BoolResponse",
		NonNull: true,
		Args:    []resolve.Arg{idArg},
		Resolve: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := requiredInt(args, "id")
			if err != nil {
				return nil, err
			}
			return boolResult(s.deps.StoryService.DeleteTask(ctx, id))
		},
	})
}
