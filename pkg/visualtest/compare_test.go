package visualtest

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestCompare_Identical(t *testing.T) {
	img := solid(10, 10, color.RGBA{255, 0, 0, 255})

	result, err := Compare(img, img, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.Match)
	assert.Zero(t, result.DifferentPixels)
	assert.Equal(t, 100, result.TotalPixels)
}

func TestCompare_Different(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.DiffImagePath = filepath.Join(dir, "diff.png")

	result, err := Compare(solid(10, 10, color.RGBA{255, 0, 0, 255}), solid(10, 10, color.RGBA{0, 0, 255, 255}), opts)
	require.NoError(t, err)
	assert.False(t, result.Match)
	assert.Equal(t, 100, result.DifferentPixels)
	assert.Equal(t, 255, result.MaxDifference)
	assert.InDelta(t, 100, result.DifferentPercent(), 1e-9)
	assert.FileExists(t, opts.DiffImagePath)
}

func TestCompare_Tolerance(t *testing.T) {
	a := solid(10, 10, color.RGBA{100, 100, 100, 255})
	b := solid(10, 10, color.RGBA{102, 102, 102, 255})

	opts := DefaultOptions()
	result, err := Compare(a, b, opts)
	require.NoError(t, err)
	assert.True(t, result.Match)

	opts.Tolerance = 0
	result, err = Compare(a, b, opts)
	require.NoError(t, err)
	assert.False(t, result.Match)
}

func TestCompare_FuzzyAndPercent(t *testing.T) {
	a := solid(10, 10, color.White)
	b := solid(10, 10, color.White)
	a.Set(4, 4, color.Black)
	b.Set(5, 4, color.Black)

	opts := DefaultOptions()
	result, err := Compare(a, b, opts)
	require.NoError(t, err)
	assert.False(t, result.Match)
	assert.Equal(t, 2, result.DifferentPixels)

	opts.FuzzyRadius = 1
	result, err = Compare(a, b, opts)
	require.NoError(t, err)
	assert.True(t, result.Match)

	opts.FuzzyRadius = 0
	opts.MaxDifferentPercent = 2
	result, err = Compare(a, b, opts)
	require.NoError(t, err)
	assert.True(t, result.Match)
}

func TestCompare_DifferentDimensions(t *testing.T) {
	result, err := Compare(solid(10, 10, color.White), solid(20, 20, color.White), DefaultOptions())
	assert.Error(t, err)
	assert.False(t, result.Match)
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	require.NoError(t, SavePNG(solid(4, 4, color.White), a))
	require.NoError(t, SavePNG(solid(4, 4, color.White), b))

	result, err := CompareFiles(a, b, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.Match)

	_, err = CompareFiles(a, filepath.Join(dir, "missing.png"), DefaultOptions())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
