package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imhtml/pkg/config"
	"imhtml/pkg/engine"
)

func TestFontHandle_RoundTrip(t *testing.T) {
	styles := []config.FontStyle{config.Regular, config.Bold, config.Italic, config.BoldItalic}
	sizes := []int{1, 2, 12, 16, 255, 256, 4096, 65534, 65535}
	for size := 1; size <= 65535; size += 997 {
		sizes = append(sizes, size)
	}

	for _, style := range styles {
		for _, size := range sizes {
			gotStyle, gotSize := DecodeFont(EncodeFont(style, size))
			if gotStyle != style || gotSize != size {
				t.Fatalf("round trip (%v, %d) = (%v, %d)", style, size, gotStyle, gotSize)
			}
		}
	}
}

func TestFontHandle_Layout(t *testing.T) {
	assert.Equal(t, engine.FontHandle(2<<16|14), EncodeFont(config.Italic, 14))
	assert.Equal(t, engine.FontHandle(3<<16|65535), EncodeFont(config.BoldItalic, 65535))
}

func TestFontHandle_Clamps(t *testing.T) {
	_, size := DecodeFont(EncodeFont(config.Bold, 0))
	assert.Equal(t, 1, size)
	style, size := DecodeFont(EncodeFont(config.Bold, 70000))
	assert.Equal(t, config.Bold, style)
	assert.Equal(t, 65535, size)
}

func TestFontStyleFor(t *testing.T) {
	tests := []struct {
		weight int
		style  engine.FontStyle
		want   config.FontStyle
	}{
		{400, engine.FontStyleNormal, config.Regular},
		{401, engine.FontStyleNormal, config.Bold},
		{700, engine.FontStyleNormal, config.Bold},
		{400, engine.FontStyleItalic, config.Italic},
		{700, engine.FontStyleItalic, config.BoldItalic},
		{100, engine.FontStyleItalic, config.Italic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fontStyleFor(tt.weight, tt.style), "weight=%d style=%d", tt.weight, tt.style)
	}
}
