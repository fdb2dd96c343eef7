package benchmark

import "strconv"

const (
	SimpleUsers               = "simple_users"
	SimpleTeams               = "simple_teams"
	SimpleSprints             = "simple_sprints"
	OneToOneTaskOwner         = "one_to_one_task_owner"
	OneToManyTeamSprints      = "one_to_many_team_sprints"
	OneToManyTeamUsers        = "one_to_many_team_users"
	Nested2Layers             = "nested_2_layers"
	Nested3Layers             = "nested_3_layers"
	Nested4LayersWithOwners   = "nested_4_layers_with_owners"
	SprintWithStoriesAndTasks = "sprint_with_stories_and_tasks"
)

const concurrentScenarioPrefix = "concurrent_"

// Scenarios is the order the sequential scenarios run in.
var Scenarios = []string{
	SimpleUsers,
	SimpleTeams,
	SimpleSprints,
	OneToOneTaskOwner,
	OneToManyTeamSprints,
	OneToManyTeamUsers,
	Nested2Layers,
	Nested3Layers,
	Nested4LayersWithOwners,
	SprintWithStoriesAndTasks,
}

// ConcurrentQuery is the scenario fanned out in the concurrent runs.
const ConcurrentQuery = Nested4LayersWithOwners

var Queries = map[string]string{
	SimpleUsers: `
query {
  get_users {
    id
    name
    level
  }
}`,

	SimpleTeams: `
query {
  get_teams {
    id
    name
  }
}`,

	SimpleSprints: `
query {
  get_sprints {
    id
    name
    status
  }
}`,

	OneToOneTaskOwner: `
query {
  get_tasks {
    id
    name
    owner {
      id
      name
    }
  }
}`,

	OneToManyTeamSprints: `
query {
  get_teams {
    id
    name
    sprints {
      id
      name
      status
    }
  }
}`,

	OneToManyTeamUsers: `
query {
  get_teams {
    id
    name
    users {
      id
      name
      level
    }
  }
}`,

	Nested2Layers: `
query {
  get_teams {
    id
    name
    sprints {
      id
      name
      stories {
        id
        name
      }
    }
  }
}`,

	Nested3Layers: `
query {
  get_teams {
    id
    name
    sprints {
      id
      name
      stories {
        id
        name
        tasks {
          id
          name
          estimate
        }
      }
    }
  }
}`,

	Nested4LayersWithOwners: `
query {
  get_teams {
    id
    name
    sprints {
      id
      name
      stories {
        id
        name
        owner {
          id
          name
        }
        tasks {
          id
          name
          estimate
          owner {
            id
            name
          }
        }
      }
    }
  }
}`,

	SprintWithStoriesAndTasks: `
query {
  get_sprints {
    id
    name
    status
    stories {
      id
      name
      owner {
        id
        name
      }
      tasks {
        id
        name
        estimate
      }
    }
  }
}`,
}

// ConcurrentScenario names the aggregated result of a concurrency level.
func ConcurrentScenario(concurrency int) string {
	return concurrentScenarioPrefix + strconv.Itoa(concurrency)
}
