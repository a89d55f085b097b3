package dto

// ListResponse wraps every collection returned by the API.
type ListResponse[T any] struct {
	Object string `json:"object" example:"list"`
	Data   []T    `json:"data"`
	Total  int    `json:"total"`
}

// NewList builds a list envelope, never rendering data as null.
func NewList[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Object: "list", Data: items, Total: len(items)}
}

// ListQuery bounds list endpoints.
type ListQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// DeletedResponse confirms a deletion.
type DeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}
