package domain

// Candidate is a content record considered for ranking in one search
// request. Candidates are reconstructed fresh per request from persisted
// entities and never outlive it.
type Candidate struct {
	ID        string
	Type      ContentType
	Title     string
	Subtitle  string
	Embedding []float32
	CaseID    string
	CaseTitle string
	ProjectID string
	// UpdatedAt is the entity's last-touch time in unix milliseconds,
	// used as the ranking tie-break.
	UpdatedAt int64
	// Metadata is type-specific payload passed through to the response
	// untouched; values keep their original JSON types.
	Metadata map[string]any
}

// Entity is the write-side record accepted by the ingest path. Its
// embedding is computed from Text at write time and stored alongside it.
type Entity struct {
	ID        string
	Type      ContentType
	Title     string
	Subtitle  string
	Text      string
	CaseID    string
	CaseTitle string
	ProjectID string
	// ParentID links a document chunk to its parent document; empty for
	// every other type.
	ParentID string
	Metadata map[string]any
}
