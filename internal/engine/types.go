package engine

// Info mirrors the fields of yt-dlp --dump-single-json output that the
// batch needs to classify a URL.
type Info struct {
	Type          string `json:"_type"`
	ID            string `json:"id"`
	Title         string `json:"title"`
	PlaylistCount int    `json:"playlist_count"`
	ExtractorKey  string `json:"extractor_key"`
	WebpageURL    string `json:"webpage_url"`
}

// IsCollection reports whether the probe resolved to a container of entries.
func (i Info) IsCollection() bool {
	return i.Type == "playlist" || i.Type == "multi_video"
}
