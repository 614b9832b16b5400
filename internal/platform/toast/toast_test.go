// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package toast_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/toast"
)

func TestWriter(t *testing.T) {
	var out bytes.Buffer
	writer := toast.NewWriter(&out)

	writer.Notify(context.Background(), toast.Info("Link copied", ""))
	writer.Notify(context.Background(), toast.Error("Error", "Failed to load articles."))

	assert.Equal(t, "* Link copied\n! Error: Failed to load articles.\n", out.String())
}

func TestRecorder(t *testing.T) {
	recorder := &toast.Recorder{}

	_, ok := recorder.Last()
	assert.False(t, ok)

	recorder.Notify(context.Background(), toast.Info("a", ""))
	recorder.Notify(context.Background(), toast.Error("b", "c"))

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, toast.VariantDestructive, last.Variant)
	assert.Len(t, recorder.All(), 2)

	recorder.Reset()
	assert.Empty(t, recorder.All())
}

func TestOrDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		toast.OrDiscard(nil).Notify(context.Background(), toast.Info("x", ""))
	})
}
