package dashboard

import "github.com/harveywai/leadflow/pkg/leadapi"

// Filters is the status/priority selection of the leads view. An empty
// field matches every lead; both fields must match.
type Filters struct {
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// Matches reports whether lead passes both predicates.
func (f Filters) Matches(lead leadapi.Lead) bool {
	matchesStatus := f.Status == "" || lead.Status == f.Status
	matchesPriority := f.Priority == "" || lead.Priority == f.Priority
	return matchesStatus && matchesPriority
}

// Apply returns the matching leads in their original order. The input slice
// is never modified and the result never aliases it.
func (f Filters) Apply(leads []leadapi.Lead) []leadapi.Lead {
	result := make([]leadapi.Lead, 0, len(leads))
	for _, lead := range leads {
		if f.Matches(lead) {
			result = append(result, lead)
		}
	}
	return result
}

// Active reports whether any predicate is set.
func (f Filters) Active() bool {
	return f.Status != "" || f.Priority != ""
}
