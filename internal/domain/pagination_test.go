package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPaginationWindow(t *testing.T) {
	p := Pagination{Page: 3, PageSize: 5}

	assert.Equal(t, 5, p.Limit())
	assert.Equal(t, 10, p.Offset())
}

func TestNewMetadata(t *testing.T) {
	tests := []struct {
		name                  string
		total, page, pageSize int
		want                  Metadata
	}{
		{
			name:     "no rooms",
			total:    0,
			page:     1,
			pageSize: 10,
			want:     Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 0, PageSize: 10, TotalRecords: 0},
		},
		{
			name:     "partial last page",
			total:    11,
			page:     3,
			pageSize: 5,
			want:     Metadata{CurrentPage: 3, FirstPage: 1, LastPage: 3, PageSize: 5, TotalRecords: 11},
		},
		{
			name:     "exact fit",
			total:    10,
			page:     1,
			pageSize: 5,
			want:     Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 2, PageSize: 5, TotalRecords: 10},
		},
		{
			name:     "zero page size",
			total:    4,
			page:     1,
			pageSize: 0,
			want:     Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 0, PageSize: 0, TotalRecords: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, *NewMetadata(tt.total, tt.page, tt.pageSize)); diff != "" {
				t.Errorf("NewMetadata() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
