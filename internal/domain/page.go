package domain

// Page is the paginated envelope every list endpoint returns.
type Page[T any] struct {
	Data        []T  `json:"data"`
	CurrentPage int  `json:"current_page"`
	LastPage    int  `json:"last_page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	From        *int `json:"from,omitempty"`
	To          *int `json:"to,omitempty"`
}

// HasNext reports whether another page follows.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

// Mutation is the `{message, <entity>}` envelope returned by writes.
type Mutation[T any] struct {
	Message string
	Entity  *T
}
