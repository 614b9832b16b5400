// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/dizesi/pkg/pointer"
)

func TestVal(t *testing.T) {
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, "bio", pointer.Val(pointer.To("bio")))
}

func TestFirst_PrefersEarlierPresentValue(t *testing.T) {
	assert.Equal(t, "/a.png", pointer.First(nil, pointer.To("/a.png"), pointer.To("/b.png")))
	assert.Equal(t, "", pointer.First(pointer.To(""), pointer.To("/b.png")))
	assert.Equal(t, 0, pointer.First[int](nil, nil))
}
