package goquery_test

import (
	"testing"

	"github.com/hktitof/newsdigest"
	ndgoquery "github.com/hktitof/newsdigest/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns title, text and length", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Offshore Wind Expands | Energy Daily</title></head>
<body>
<nav>Home News Markets Opinion</nav>
<article>
<p>Offshore wind capacity grew by a third last year as new farms came online.</p>
<p>Developers expect further growth.</p>
</article>
</body>
</html>`

		ext := ndgoquery.NewExtractor()
		got, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Offshore Wind Expands", got.Title)
		assert.Contains(t, got.TextContent, "Offshore wind capacity grew")
		assert.Contains(t, got.TextContent, "Home News Markets Opinion")
		assert.Equal(t, len([]rune(got.TextContent)), got.Length)
	})

	t.Run("strict mode drops navigation", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav>Home News Markets Opinion</nav><p>Offshore wind capacity grew by a third last year.</p></body></html>`

		ext := ndgoquery.NewExtractor(ndgoquery.WithStrict(true))
		got, err := ext.Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Offshore wind capacity grew by a third last year.", got.TextContent)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		ext := ndgoquery.NewExtractor()
		_, err := ext.Extract("   ")

		require.Error(t, err)
		assert.Equal(t, newsdigest.EINVALID, newsdigest.ErrorCode(err))
	})

	t.Run("short page yields insufficient content", func(t *testing.T) {
		t.Parallel()

		ext := ndgoquery.NewExtractor()
		got, err := ext.Extract(`<html><body><p>Too short</p></body></html>`)

		require.NoError(t, err)
		assert.False(t, got.Sufficient())
	})
}
