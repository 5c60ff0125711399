// Package batch turns a list of URLs into sequential probe-then-fetch work,
// deciding the on-disk layout of each item before yt-dlp sees it.
package batch

import "fmt"

// WorkItem is one input URL with its display/template index.
type WorkItem struct {
	Index int
	URL   string
}

// JobID is the identifier used for progress events.
func (w WorkItem) JobID() string {
	return fmt.Sprintf("item-%d", w.Index)
}

// Enumerate numbers urls start, start+1, ... in input order.
func Enumerate(urls []string, start int) []WorkItem {
	items := make([]WorkItem, 0, len(urls))
	for i, u := range urls {
		items = append(items, WorkItem{Index: start + i, URL: u})
	}
	return items
}
