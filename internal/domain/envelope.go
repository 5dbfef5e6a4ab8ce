package domain

// Envelope wraps every API response
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// PageMeta describes one fetched slice of an ordered collection
type PageMeta struct {
	CurrentPage int `json:"current_page" yaml:"current_page"`
	LastPage    int `json:"last_page" yaml:"last_page"`
	PerPage     int `json:"per_page" yaml:"per_page"`
	Total       int `json:"total" yaml:"total"`
}

// HasPages reports whether the collection spans more than one page.
// The pagination control is only shown when it does.
func (m PageMeta) HasPages() bool {
	return m.LastPage > 1
}

// HasPrev reports whether a previous page exists
func (m PageMeta) HasPrev() bool {
	return m.CurrentPage > 1
}

// HasNext reports whether a following page exists
func (m PageMeta) HasNext() bool {
	return m.CurrentPage < m.LastPage
}

// Page is a paginated list payload
type Page[T any] struct {
	Data []T      `json:"data" yaml:"data"`
	Meta PageMeta `json:"meta" yaml:"meta"`
}
