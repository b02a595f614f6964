package newsdigest_test

import (
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/stretchr/testify/assert"
)

func TestDeduplicate(t *testing.T) {
	t.Parallel()

	t.Run("drops near duplicate keeping the first", func(t *testing.T) {
		t.Parallel()

		articles := []newsdigest.Article{
			{Title: "Solar output record", Summary: "Global solar generation reached record levels this summer"},
			{Title: "Solar output record", Summary: "Global solar generation reached record levels this summer again"},
		}

		got := newsdigest.Deduplicate(articles, newsdigest.DefaultSimilarityThreshold)

		assert.Equal(t, articles[:1], got)
	})

	t.Run("keeps disjoint articles in order", func(t *testing.T) {
		t.Parallel()

		articles := []newsdigest.Article{
			{Title: "Wind farms expand", Summary: "Offshore turbines multiply along northern coasts"},
			{Title: "Battery prices fall", Summary: "Lithium storage costs dropped sharply during spring"},
			{Title: "Grid upgrades planned", Summary: "Transmission operators announce major investment programmes"},
		}

		got := newsdigest.Deduplicate(articles, newsdigest.DefaultSimilarityThreshold)

		assert.Equal(t, articles, got)
	})

	t.Run("compares against every accepted article", func(t *testing.T) {
		t.Parallel()

		articles := []newsdigest.Article{
			{Title: "Hydrogen pilot launched", Summary: "Electrolyser plant begins producing green fuel"},
			{Title: "Coal demand slides", Summary: "Power stations burn less coal across europe"},
			{Title: "Hydrogen pilot launched", Summary: "Electrolyser plant begins producing green fuel"},
		}

		got := newsdigest.Deduplicate(articles, newsdigest.DefaultSimilarityThreshold)

		assert.Equal(t, articles[:2], got)
	})

	t.Run("returns single and empty input unchanged", func(t *testing.T) {
		t.Parallel()

		single := []newsdigest.Article{{Title: "a", Summary: "b"}}

		assert.Equal(t, single, newsdigest.Deduplicate(single, newsdigest.DefaultSimilarityThreshold))
		assert.Empty(t, newsdigest.Deduplicate(nil, newsdigest.DefaultSimilarityThreshold))
	})

	t.Run("ignores case", func(t *testing.T) {
		t.Parallel()

		articles := []newsdigest.Article{
			{Title: "NUCLEAR RESTART", Summary: "REACTOR FLEET RETURNS AFTER MAINTENANCE"},
			{Title: "nuclear restart", Summary: "reactor fleet returns after maintenance"},
		}

		got := newsdigest.Deduplicate(articles, newsdigest.DefaultSimilarityThreshold)

		assert.Len(t, got, 1)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		t.Parallel()

		// Token sets {alpha, beta, gamma, delta} and {alpha, beta, gamma, omega}
		// overlap 3 of 5 = 0.6.
		articles := []newsdigest.Article{
			{Title: "alpha beta", Summary: "gamma delta"},
			{Title: "alpha beta", Summary: "gamma omega"},
		}

		assert.Len(t, newsdigest.Deduplicate(articles, 0.6), 2)
		assert.Len(t, newsdigest.Deduplicate(articles, 0.59), 1)
	})
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	t.Run("ignores short tokens", func(t *testing.T) {
		t.Parallel()

		assert.InDelta(t, 1.0, newsdigest.Similarity("the grid is down", "a grid was down"), 0.0001)
	})

	t.Run("zero when no long tokens", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, newsdigest.Similarity("a b c", "a b c"))
	})

	t.Run("partial overlap", func(t *testing.T) {
		t.Parallel()

		assert.InDelta(t, 1.0/3.0, newsdigest.Similarity("solar wind", "wind hydro"), 0.0001)
	})
}
