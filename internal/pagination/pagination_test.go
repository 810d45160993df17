package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginator_Page(t *testing.T) {
	p := New(10)

	tests := []struct {
		name           string
		totalItems     int
		raw            string
		expectedNumber int
		expectedOffset int
		expectedTotal  int
		expectedNext   bool
		expectedPrev   bool
	}{
		{
			name:           "Absent page defaults to first",
			totalItems:     13,
			raw:            "",
			expectedNumber: 1,
			expectedOffset: 0,
			expectedTotal:  2,
			expectedNext:   true,
		},
		{
			name:           "Non-numeric page defaults to first",
			totalItems:     13,
			raw:            "abc",
			expectedNumber: 1,
			expectedOffset: 0,
			expectedTotal:  2,
			expectedNext:   true,
		},
		{
			name:           "Zero page defaults to first",
			totalItems:     13,
			raw:            "0",
			expectedNumber: 1,
			expectedOffset: 0,
			expectedTotal:  2,
			expectedNext:   true,
		},
		{
			name:           "Negative page defaults to first",
			totalItems:     13,
			raw:            "-3",
			expectedNumber: 1,
			expectedOffset: 0,
			expectedTotal:  2,
			expectedNext:   true,
		},
		{
			name:           "Second page",
			totalItems:     13,
			raw:            "2",
			expectedNumber: 2,
			expectedOffset: 10,
			expectedTotal:  2,
			expectedPrev:   true,
		},
		{
			name:           "Past the end clamps to last",
			totalItems:     13,
			raw:            "3",
			expectedNumber: 2,
			expectedOffset: 10,
			expectedTotal:  2,
			expectedPrev:   true,
		},
		{
			name:           "Exact multiple has no partial page",
			totalItems:     20,
			raw:            "2",
			expectedNumber: 2,
			expectedOffset: 10,
			expectedTotal:  2,
			expectedPrev:   true,
		},
		{
			name:           "Empty result set still has one page",
			totalItems:     0,
			raw:            "5",
			expectedNumber: 1,
			expectedOffset: 0,
			expectedTotal:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := p.Page(tt.totalItems, tt.raw)
			assert.Equal(t, tt.expectedNumber, page.Number)
			assert.Equal(t, tt.expectedOffset, page.Offset)
			assert.Equal(t, tt.expectedTotal, page.TotalPages)
			assert.Equal(t, tt.expectedNext, page.HasNext)
			assert.Equal(t, tt.expectedPrev, page.HasPrev)
			assert.Equal(t, 10, page.Limit)
			assert.Equal(t, tt.totalItems, page.TotalItems)
		})
	}
}

func TestNew_ClampsPageSize(t *testing.T) {
	p := New(0)
	assert.Equal(t, 1, p.PageSize)

	page := p.Page(3, "2")
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 3, page.TotalPages)
}
