package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hktitof/newsdigest"
	"github.com/hktitof/newsdigest/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkLinkInserts measures saving links the way a bulk add does.
func BenchmarkLinkInserts(b *testing.B) {
	dbPath := filepath.Join(b.TempDir(), "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())
	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	ctx := context.Background()
	svc := sqlite.NewLinkService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		link := &newsdigest.Link{
			Category:    "bench",
			URL:         fmt.Sprintf("https://example.com/news/%d", i),
			Title:       fmt.Sprintf("Story %d", i),
			Summary:     fmt.Sprintf("Story %d summarized in a couple of sentences so the row has realistic width.", i),
			ContentHash: fmt.Sprintf("%016x", i),
		}
		if err := svc.CreateLink(ctx, link); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFindFailed measures the placeholder scan run before a rescan.
func BenchmarkFindFailed(b *testing.B) {
	const links = 500

	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewLinkService(db)
	for i := 0; i < links; i++ {
		link := &newsdigest.Link{
			Category: "bench",
			URL:      fmt.Sprintf("https://example.com/news/%d", i),
			Title:    fmt.Sprintf("Story %d", i),
			Summary:  "A normal summary.",
		}
		if i%10 == 0 {
			link.Title = newsdigest.FetchErrorPlaceholder.Title
			link.Summary = newsdigest.FetchErrorPlaceholder.Summary
		}
		require.NoError(b, svc.CreateLink(ctx, link))
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := svc.FindLinks(ctx, newsdigest.LinkFilter{FailedOnly: true}); err != nil {
			b.Fatal(err)
		}
	}
}
