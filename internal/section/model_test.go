package section

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentStructured(t *testing.T) {
	raw := []byte(`{"html":"<p>hi</p>","images":[{"id":"a1","url":"https://cdn/x.png","name":"x.png"}]}`)

	content := ParseContent(raw)
	assert.Equal(t, "<p>hi</p>", content.HTML)
	require.Len(t, content.Images, 1)
	assert.Equal(t, "https://cdn/x.png", content.Images[0].URL)
}

func TestParseContentLegacyString(t *testing.T) {
	content := ParseContent([]byte(`"<h1>bare html</h1>"`))

	assert.Equal(t, "<h1>bare html</h1>", content.HTML)
	assert.NotNil(t, content.Images)
	assert.Empty(t, content.Images)
}

func TestParseContentEmptyAndGarbage(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte(`not json`)} {
		content := ParseContent(raw)
		assert.Empty(t, content.HTML)
		assert.NotNil(t, content.Images)
	}
}

func TestParseContentMissingImages(t *testing.T) {
	content := ParseContent([]byte(`{"html":"<p>x</p>"}`))

	assert.Equal(t, "<p>x</p>", content.HTML)
	assert.NotNil(t, content.Images)
}

func TestRawAlwaysStructured(t *testing.T) {
	raw := Content{HTML: "<p>x</p>"}.Raw()

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "html")
	assert.Contains(t, decoded, "images")
	assert.Equal(t, "[]", string(decoded["images"]))
}

func TestLegacyStringSurvivesRoundTrip(t *testing.T) {
	// a bare string column re-saved must come back as the structured form
	first := ParseContent([]byte(`"<p>old post</p>"`))
	second := ParseContent(first.Raw())

	assert.Equal(t, "<p>old post</p>", second.HTML)
	assert.NotNil(t, second.Images)
}

func TestIsValidType(t *testing.T) {
	for _, valid := range ValidTypes {
		assert.True(t, IsValidType(valid))
	}
	assert.False(t, IsValidType("banner"))
	assert.False(t, IsValidType(""))
}
