package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParseListQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name            string
		url             string
		page, perPage   int
		sortBy, sortDir string
	}{
		{
			name: "Defaults", url: "/loans",
			page: 1, perPage: 20,
		},
		{
			name: "Explicit Values", url: "/loans?page=3&per_page=50",
			page: 3, perPage: 50,
		},
		{
			name: "Zero PerPage Falls Back", url: "/loans?per_page=0",
			page: 1, perPage: 20,
		},
		{
			name: "Negative Page Falls Back", url: "/loans?page=-2&per_page=-5",
			page: 1, perPage: 20,
		},
		{
			name: "Non Numeric Falls Back", url: "/loans?page=abc&per_page=xyz",
			page: 1, perPage: 20,
		},
		{
			name: "Sort Field And Direction", url: "/loans?sort=due_date-desc",
			page: 1, perPage: 20, sortBy: "due_date", sortDir: "desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tt.url, nil)

			query := parseListQuery(c)

			assert.Equal(t, tt.page, query.Page)
			assert.Equal(t, tt.perPage, query.PerPage)
			assert.Equal(t, tt.sortBy, query.SortBy)
			assert.Equal(t, tt.sortDir, query.SortDir)
			// Pagination math in Index divides by PerPage
			assert.Positive(t, query.PerPage)
		})
	}
}

func TestParseListQueryFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/loans?search=María&outstanding=true&currency=C%24", nil)

	query := parseListQuery(c)

	assert.Equal(t, "María", query.Search)
	assert.Equal(t, "true", query.Filters["outstanding"])
	assert.Equal(t, "C$", query.Filters["currency"])
}
