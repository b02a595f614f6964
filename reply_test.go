package newsdigest_test

import (
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/stretchr/testify/assert"
)

func TestParseSummaryReply(t *testing.T) {
	t.Parallel()

	t.Run("parses strict JSON", func(t *testing.T) {
		t.Parallel()

		got := newsdigest.ParseSummaryReply(`{"title":"Grid Upgrade","summary":"Operators invest in lines."}`, "Fallback")

		assert.Equal(t, newsdigest.SummaryResult{Title: "Grid Upgrade", Summary: "Operators invest in lines."}, got)
	})

	t.Run("parses JSON wrapped in a code fence", func(t *testing.T) {
		t.Parallel()

		raw := "```json\n{\"title\": \"Grid Upgrade\", \"summary\": \"Operators invest in lines.\"}\n```"

		got := newsdigest.ParseSummaryReply(raw, "Fallback")

		assert.Equal(t, newsdigest.SummaryResult{Title: "Grid Upgrade", Summary: "Operators invest in lines."}, got)
	})

	t.Run("parses JSON surrounded by prose", func(t *testing.T) {
		t.Parallel()

		raw := "Here is the result: {\"title\": \"Grid\", \"summary\": \"Lines get built.\"} Hope it helps."

		got := newsdigest.ParseSummaryReply(raw, "Fallback")

		assert.Equal(t, newsdigest.SummaryResult{Title: "Grid", Summary: "Lines get built."}, got)
	})

	t.Run("extracts fields from broken JSON", func(t *testing.T) {
		t.Parallel()

		raw := `{"title": "Grid Upgrade", "summary": "Operators invest.\nMore soon.", "extra": [1, 2,}`

		got := newsdigest.ParseSummaryReply(raw, "Fallback")

		assert.Equal(t, "Grid Upgrade", got.Title)
		assert.Equal(t, "Operators invest.\nMore soon.", got.Summary)
	})

	t.Run("uses caller title when only summary is recognizable", func(t *testing.T) {
		t.Parallel()

		got := newsdigest.ParseSummaryReply(`"summary": "Only a summary here"`, "Caller Title")

		assert.Equal(t, "Caller Title", got.Title)
		assert.Equal(t, "Only a summary here", got.Summary)
	})

	t.Run("falls back to caller title and raw text", func(t *testing.T) {
		t.Parallel()

		got := newsdigest.ParseSummaryReply(`The model rambled.\nNo JSON at all.`, "Caller Title")

		assert.Equal(t, "Caller Title", got.Title)
		assert.Equal(t, "The model rambled.\nNo JSON at all.", got.Summary)
	})

	t.Run("fills missing title from caller", func(t *testing.T) {
		t.Parallel()

		got := newsdigest.ParseSummaryReply(`{"summary":"Body only."}`, "Caller Title")

		assert.Equal(t, "Caller Title", got.Title)
		assert.Equal(t, "Body only.", got.Summary)
	})

	t.Run("never returns empty fields", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "   ", "```json\n```", `{"title":"","summary":""}`} {
			got := newsdigest.ParseSummaryReply(raw, "")
			assert.NotEmpty(t, got.Title, raw)
			assert.NotEmpty(t, got.Summary, raw)
		}
	})

	t.Run("ignores non-string fields", func(t *testing.T) {
		t.Parallel()

		got := newsdigest.ParseSummaryReply(`{"title": 5, "summary": ["a", "b"]}`, "Caller Title")

		assert.Equal(t, "Caller Title", got.Title)
		assert.NotEmpty(t, got.Summary)
	})
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, newsdigest.StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, newsdigest.StripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `plain`, newsdigest.StripCodeFence("  plain  "))
}
