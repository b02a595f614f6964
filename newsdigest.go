// Package newsdigest turns web articles into short summaries. It acquires
// page HTML (plain fetch first, headless browser as fallback), isolates the
// human-readable text, and asks a chat-completion model for a title and
// summary. Batches of already-summarized articles can be deduplicated and
// condensed into a single category digest.
//
// This package contains domain types, interfaces and the pure algorithms
// that have no external dependency. Implementations live in subdirectories
// named after their primary dependency (e.g., goquery/, rod/, openai/).
package newsdigest
