package agent

import (
	"context"
	"strings"
)

// handlerFunc executes one routed task.
type handlerFunc func(ctx context.Context, params Params) (*TaskResult, error)

// route binds a named handler to the task keywords that select it.
type route struct {
	name     string
	keywords []string
	handler  handlerFunc
}

func (r route) matches(task string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(task, kw) {
			return true
		}
	}
	return false
}

// dispatch routes a task to the first matching handler, in declaration
// order. Matching is case-insensitive substring containment. When no route
// matches, fallback runs.
func dispatch(ctx context.Context, task string, params Params, routes []route, fallback handlerFunc) (*TaskResult, error) {
	lowered := strings.ToLower(task)
	for _, r := range routes {
		if r.matches(lowered) {
			return r.handler(ctx, params)
		}
	}
	return fallback(ctx, params)
}
