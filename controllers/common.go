package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eduagenda/eduagenda/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// getUserID reads the user ID set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// parsePagination extracts page/pageSize query params with sane bounds.
func parsePagination(ctx *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// parseTimeQuery parses an RFC3339 query parameter, returning ok=false when absent or invalid.
func parseTimeQuery(ctx *gin.Context, key string) (time.Time, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
