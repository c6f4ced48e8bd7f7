package services

// PageSize is the fixed number of rows per listing page.
const PageSize = 20

// Page is one page of a listing.
type Page[T any] struct {
	Items       []T
	TotalCount  int
	TotalPages  int
	PageSize    int
	CurrentPage int
}

// normalizePage clamps page to 1 and returns it with the matching row offset.
func normalizePage(page int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * PageSize
}

// totalPages is ceil(total/PageSize), never less than 1.
func totalPages(total int) int {
	if total <= 0 {
		return 1
	}
	return (total + PageSize - 1) / PageSize
}

func newPage[T any](items []T, total, page int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		TotalCount:  total,
		TotalPages:  totalPages(total),
		PageSize:    PageSize,
		CurrentPage: page,
	}
}
