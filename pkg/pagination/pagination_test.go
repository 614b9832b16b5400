// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/dizesi/pkg/pagination"
)

/*
TestPageCount_Ceil verifies page count = ceil(N/5) and the size of the last page.
*/
func TestPageCount_Ceil(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		pages := pagination.PageCount(n, 5)
		assert.Equal(t, (n+4)/5, pages, "n=%d", n)

		if n == 0 {
			last, meta := pagination.Slice(items, 1, 5)
			assert.Empty(t, last)
			assert.Equal(t, 1, meta.Page)
			continue
		}

		last, meta := pagination.Slice(items, pages, 5)
		want := n % 5
		if want == 0 {
			want = 5
		}
		assert.Len(t, last, want, "n=%d", n)
		assert.Equal(t, n-1, last[len(last)-1])
		assert.False(t, meta.HasNext())
	}
}

/*
TestSlice_ClampsOutOfRange keeps requests inside the valid range.
*/
func TestSlice_ClampsOutOfRange(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	page, meta := pagination.Slice(items, 9, 5)
	assert.Equal(t, []string{"f", "g"}, page)
	assert.Equal(t, 2, meta.Page)
	assert.True(t, meta.HasPrev())

	page, meta = pagination.Slice(items, -1, 5)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, page)
	assert.Equal(t, 1, meta.Page)
	assert.True(t, meta.HasNext())
}
