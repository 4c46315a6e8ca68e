package review

import (
	"strings"

	"investportal/pkg/types"
)

// Filter narrows the application list. Zero-valued fields match everything;
// the set fields are combined with AND.
type Filter struct {
	Search string                  `form:"q"`
	Status types.ApplicationStatus `form:"status"`
	Type   types.ApplicationType   `form:"type"`
}

func (f Filter) Match(app *types.Application) bool {
	if f.Status != "" && app.Status != f.Status {
		return false
	}
	if f.Type != "" && app.Type != f.Type {
		return false
	}
	return f.matchSearch(app)
}

func (f Filter) matchSearch(app *types.Application) bool {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	if needle == "" {
		return true
	}

	haystack := []string{app.Name, app.Email, app.Phone}
	if app.CompanyName != nil {
		haystack = append(haystack, *app.CompanyName)
	}

	for _, h := range haystack {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Apply returns the applications that match f, keeping their order.
func Apply(apps []*types.Application, f Filter) []*types.Application {
	out := make([]*types.Application, 0, len(apps))
	for _, app := range apps {
		if f.Match(app) {
			out = append(out, app)
		}
	}
	return out
}
