package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		pageSize   int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults pass through", 1, 20, 1, 20, 0},
		{"second page", 2, 20, 2, 20, 20},
		{"zero page coerced to first", 0, 20, 1, 20, 0},
		{"negative page coerced to first", -3, 20, 1, 20, 0},
		{"zero page size falls back to default", 1, 0, 1, 20, 0},
		{"negative page size falls back to default", 1, -5, 1, 20, 0},
		{"oversized page size clamped", 1, 500, 1, 100, 0},
		{"max page size kept", 3, 100, 3, 100, 200},
		{"small page size kept", 4, 5, 4, 5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := NormalizePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}
