package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFromQuery(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantOrder string
	}{
		{
			name:      "Defaults",
			query:     "",
			wantPage:  1,
			wantLimit: 20,
			wantOrder: "DESC",
		},
		{
			name:      "Explicit values",
			query:     "page=3&limit=50&sort_order=asc",
			wantPage:  3,
			wantLimit: 50,
			wantOrder: "ASC",
		},
		{
			name:      "Limit clamped to max",
			query:     "limit=500",
			wantPage:  1,
			wantLimit: 100,
			wantOrder: "DESC",
		},
		{
			name:      "Negative page falls back",
			query:     "page=-1&limit=0",
			wantPage:  1,
			wantLimit: 20,
			wantOrder: "DESC",
		},
		{
			name:      "Unknown sort order falls back",
			query:     "sort_order=sideways",
			wantPage:  1,
			wantLimit: 20,
			wantOrder: "DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFromQuery(tt.query)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOrder, p.SortOrder)
		})
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 20}
	assert.Equal(t, 40, p.Offset())
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name         string
		total        int64
		page         int
		limit        int
		wantPages    int
		wantNext     bool
		wantPrevious bool
	}{
		{
			name:      "Single page",
			total:     5,
			page:      1,
			limit:     20,
			wantPages: 1,
		},
		{
			name:         "Middle page",
			total:        45,
			page:         2,
			limit:        20,
			wantPages:    3,
			wantNext:     true,
			wantPrevious: true,
		},
		{
			name:         "Last page",
			total:        40,
			page:         2,
			limit:        20,
			wantPages:    2,
			wantPrevious: true,
		},
		{
			name:      "Empty result",
			total:     0,
			page:      1,
			limit:     20,
			wantPages: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(tt.total, Params{Page: tt.page, Limit: tt.limit})
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.wantNext, meta.HasNextPage)
			assert.Equal(t, tt.wantPrevious, meta.HasPreviousPage)
		})
	}
}
