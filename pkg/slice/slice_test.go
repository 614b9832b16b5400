// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/dizesi/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
}

func TestFilter_LeavesInputUntouched(t *testing.T) {
	input := []int{1, 2, 3, 4}
	even := slice.Filter(input, func(v int) bool { return v%2 == 0 })

	assert.Equal(t, []int{2, 4}, even)
	assert.Equal(t, []int{1, 2, 3, 4}, input)
	assert.Empty(t, slice.Filter(input, func(int) bool { return false }))
}

func TestFind(t *testing.T) {
	found, ok := slice.Find([]string{"ayla", "mert"}, func(s string) bool { return s == "mert" })
	assert.True(t, ok)
	assert.Equal(t, "mert", found)

	_, ok = slice.Find([]string{"ayla"}, func(s string) bool { return s == "ece" })
	assert.False(t, ok)
}
