//go:build ocr

// Integration tests that require a local Tesseract installation.
// Run with: go test -tags ocr ./internal/engine/...

package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlens/ledgerlens/internal/testutil"
)

func TestExtractText_LiveEngine(t *testing.T) {
	data := testutil.RenderTextImage([]string{
		"CORNER MARKET",
		"COFFEE 4.50",
		"TOTAL: $4.50",
	}, 4)

	e := New()
	res, err := e.ExtractText(context.Background(), data, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.Success)
	assert.NotEmpty(t, res.RawText)
	assert.NotEmpty(t, res.Words)
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 100.0)
	assert.Contains(t, strings.ToUpper(res.RawText), "TOTAL")
}

func TestExtractText_GarbageBytesFailSoft(t *testing.T) {
	e := New()
	res, err := e.ExtractText(context.Background(), []byte("definitely not an image"), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, res.Success)
	assert.Empty(t, res.Text)
	assert.Zero(t, res.Confidence)
	assert.NotEmpty(t, res.Error)
}
