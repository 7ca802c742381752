package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
)

// Pagination holds parsed pagination parameters.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasMore reports whether rows remain after this page.
func (p Pagination) HasMore(total int64) bool {
	return int64(p.Page*p.Limit) < total
}

// NormalizePagination applies defaults to zero values and rejects anything
// outside page >= 1 and 1 <= limit <= MaxPageSize.
func NormalizePagination(page, limit int) (Pagination, error) {
	if page == 0 {
		page = constants.DefaultPage
	}
	if limit == 0 {
		limit = constants.DefaultPageSize
	}
	if page < 1 {
		return Pagination{}, errors.NewValidationError("page must be at least 1")
	}
	if limit < 1 || limit > constants.MaxPageSize {
		return Pagination{}, errors.NewValidationError("limit must be between 1 and " + strconv.Itoa(constants.MaxPageSize))
	}
	return Pagination{Page: page, Limit: limit}, nil
}

// ParsePagination reads page and limit from the query string.
// Missing values fall back to the defaults; malformed ones are validation errors.
func ParsePagination(c *gin.Context) (Pagination, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return Pagination{}, err
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return Pagination{}, err
	}
	return NormalizePagination(page, limit)
}

func parseQueryInt(c *gin.Context, key string) (int, error) {
	val := c.Query(key)
	if val == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.NewValidationError(key + " must be an integer")
	}
	if n == 0 {
		return 0, errors.NewValidationError(key + " must be at least 1")
	}
	return n, nil
}
