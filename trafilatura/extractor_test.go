package trafilatura_test

import (
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Storm Closes Schools - City Herald</title>
<meta property="og:title" content="Storm Closes Schools">
</head>
<body>
<main>
<h1>Storm Closes Schools</h1>
<p>Every public school in the district will stay closed on Friday as the storm moves inland.</p>
</main>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("extracts article text without boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav"><a href="/">Home</a><a href="/sports">Sports</a></nav>
<article>
<h1>Harbor Reopens</h1>
<p>The harbor reopened to commercial traffic on Monday after three weeks of dredging work that cleared the main channel.</p>
<p>Port officials said shipping volumes should return to normal levels within a month.</p>
</article>
<footer><p>Copyright 2026 Example Herald</p></footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.TextContent, "harbor reopened to commercial traffic")
		assert.NotContains(t, result.TextContent, "Copyright 2026 Example Herald")
		assert.Equal(t, len([]rune(result.TextContent)), result.Length)
	})

	t.Run("returns EINVALID for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, newsdigest.EINVALID, newsdigest.ErrorCode(err))
	})

	t.Run("handles minimal valid HTML", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><p>Simple content</p></body></html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.Sufficient())
	})
}
