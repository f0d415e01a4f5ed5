package svg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsActiveContent(t *testing.T) {
	input := `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)">
<script>alert(2)</script>
<script src="x.js"/>
<foreignObject><body onclick='x()'>hi</body></foreignObject>
<a href="javascript:alert(3)"><circle r="4" onmouseover=steal()></circle></a>
<rect width="10" height="10"/>
</svg>`

	out, err := Sanitize([]byte(input))
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "alert")
	assert.NotContains(t, s, "<script")
	assert.NotContains(t, s, "foreignObject")
	assert.NotContains(t, s, "onmouseover")
	assert.NotContains(t, s, "javascript:")
	assert.Contains(t, s, `<rect width="10" height="10"/>`)
}

func TestSanitizeRejectsNonSVG(t *testing.T) {
	_, err := Sanitize([]byte("<html></html>"))
	assert.ErrorIs(t, err, ErrNotSVG)
}
