// internal/pkg/pagination/pagination.go
package pagination

import "reserva/internal/pkg/apperrors"

// DefaultPageSize 是所有列表接口共用的固定页大小。
const DefaultPageSize = 10

// Page 是返回给前端的分页描述块。
type Page struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	TotalItems      int64 `json:"totalItems"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Resolve 校验页码并计算偏移量。
// 约定：pageNumber 必须落在 [1, ceil(totalItems/pageSize)] 内，
// 否则返回 ValidationError；totalItems 为 0 时任何页码都不合法。
func Resolve(pageNumber int, totalItems int64) (offset int, page Page, err error) {
	totalPages := int((totalItems + DefaultPageSize - 1) / DefaultPageSize)

	if pageNumber < 1 || pageNumber > totalPages {
		return 0, Page{}, apperrors.Validationf("Page number must be between 1 and %d", totalPages)
	}

	offset = (pageNumber - 1) * DefaultPageSize
	page = Page{
		CurrentPage:     pageNumber,
		TotalPages:      totalPages,
		ItemsPerPage:    DefaultPageSize,
		TotalItems:      totalItems,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
	return offset, page, nil
}
