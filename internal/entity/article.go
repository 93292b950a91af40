package entity

import "time"

// RemovedTitle marks NewsAPI placeholders for articles taken down by the publisher.
const RemovedTitle = "[Removed]"

type Article struct {
	Title       string
	Description string
	URL         string
	ImageURL    string // empty when the source has no lead image
	Source      string
	Author      string
	PublishedAt time.Time
}

// Removed reports whether the article is a NewsAPI "[Removed]" placeholder.
func (a Article) Removed() bool {
	return a.Title == RemovedTitle
}

// Post is a formatted status ready to be published.
type Post struct {
	Body     string
	ImageURL string
}
