package response

// PageResponse wraps list results with the paging echo every list
// endpoint returns.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	// A nil slice would serialize as null; clients expect [].
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
