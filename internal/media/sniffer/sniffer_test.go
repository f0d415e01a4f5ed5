package sniffer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
		ext  string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, TypeJPEG, "jpg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0}, TypePNG, "png"},
		{"gif", []byte("GIF89a\x01\x00"), TypeGIF, "gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP, "webp"},
		{"avif", []byte("\x00\x00\x00\x1cftypavif\x00\x00\x00\x00"), TypeAVIF, "avif"},
		{"ico", []byte{0, 0, 1, 0, 1, 0, 16, 16}, TypeICO, "ico"},
		{"svg", []byte("  <svg xmlns=\"http://www.w3.org/2000/svg\"></svg>"), TypeSVG, "svg"},
		{"xml svg", []byte("<?xml version=\"1.0\"?>\n<svg></svg>"), TypeSVG, "svg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHead(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Type)
			assert.Equal(t, tt.ext, got.Ext())
		})
	}
}

func TestDetectHeadRejectsUnknown(t *testing.T) {
	for _, head := range [][]byte{nil, []byte("hello world"), []byte("<?xml version=\"1.0\"?><html/>")} {
		_, err := DetectHead(head)
		assert.ErrorIs(t, err, ErrUnknownType)
	}
}

func TestDetectReturnsHead(t *testing.T) {
	payload := append([]byte("GIF87a"), bytes.Repeat([]byte{1}, 1024)...)
	result, head, err := Detect(bytes.NewReader(payload))
	require.NoError(t, err)
	assert.Equal(t, TypeGIF, result.Type)
	assert.Len(t, head, HeadSize)
}

func TestMatches(t *testing.T) {
	png := Result{Type: TypePNG, MIME: "image/png"}
	ico := Result{Type: TypeICO, MIME: "image/x-icon"}

	assert.True(t, Matches("", png))
	assert.True(t, Matches("image/png; charset=binary", png))
	assert.True(t, Matches("application/octet-stream", png))
	assert.False(t, Matches("image/jpeg", png))
	assert.True(t, Matches("image/vnd.microsoft.icon", ico))
}
