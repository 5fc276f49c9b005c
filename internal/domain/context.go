package domain

// SearchContext identifies the caller's current working case/project.
// Either field may be empty; an empty context disables the in-context partition.
type SearchContext struct {
	CaseID    string
	ProjectID string
}

// IsZero reports whether no context was supplied.
func (c SearchContext) IsZero() bool {
	return c.CaseID == "" && c.ProjectID == ""
}
