package metadata

import (
	"fmt"
	"strings"

	"github.com/hotgigs/automation/action"
	"github.com/hotgigs/automation/model"
)

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid workflow: %s", strings.Join(e.Problems, "; "))
}

// ValidateWorkflow reports structural problems in the step graph. The engine accepts
// workflows regardless; this exists so callers can reject bad definitions up front.
func ValidateWorkflow(wf *model.Workflow) error {
	var problems []string
	ids := make(map[string]int, len(wf.Steps))
	for i, step := range wf.Steps {
		if step.Id == "" {
			problems = append(problems, fmt.Sprintf("step %d has no id", i))
			continue
		}
		if _, ok := ids[step.Id]; ok {
			problems = append(problems, fmt.Sprintf("step id %s is duplicate", step.Id))
			continue
		}
		ids[step.Id] = i
	}
	for _, step := range wf.Steps {
		if _, ok := action.ParseKind(step.Action); !ok {
			problems = append(problems, fmt.Sprintf("step %s: action %q not registered", step.Id, step.Action))
		}
		for _, next := range step.NextSteps {
			if _, ok := ids[next]; !ok {
				problems = append(problems, fmt.Sprintf("step %s: next step %s not defined", step.Id, next))
			}
		}
		for _, next := range step.FailureSteps {
			if _, ok := ids[next]; !ok {
				problems = append(problems, fmt.Sprintf("step %s: failure step %s not defined", step.Id, next))
			}
		}
	}
	if cycle := successCycle(wf); len(cycle) > 0 {
		problems = append(problems, fmt.Sprintf("success path cycle %s", strings.Join(cycle, " -> ")))
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

const (
	unvisited = iota
	visiting
	done
)

// successCycle returns the first cycle found along next_steps edges, or nil.
func successCycle(wf *model.Workflow) []string {
	edges := make(map[string][]string, len(wf.Steps))
	for _, step := range wf.Steps {
		if _, ok := edges[step.Id]; !ok {
			edges[step.Id] = step.NextSteps
		}
	}
	state := make(map[string]int, len(edges))
	var path []string
	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = visiting
		path = append(path, id)
		for _, next := range edges[id] {
			if _, ok := edges[next]; !ok {
				continue
			}
			switch state[next] {
			case visiting:
				for i, p := range path {
					if p == next {
						return append(append([]string(nil), path[i:]...), next)
					}
				}
			case unvisited:
				if c := visit(next); c != nil {
					return c
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}
	for _, step := range wf.Steps {
		if state[step.Id] == unvisited {
			if c := visit(step.Id); c != nil {
				return c
			}
		}
	}
	return nil
}
