package domain

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into the accepted range
func NewPage(number, size int) Page {
	if number <= 0 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Limit returns the SQL limit for the page
func (p Page) Limit() int {
	return NewPage(p.Number, p.Size).Size
}

// Offset returns the SQL offset for the page
func (p Page) Offset() int {
	n := NewPage(p.Number, p.Size)
	return (n.Number - 1) * n.Size
}
