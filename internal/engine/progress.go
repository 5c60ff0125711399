package engine

import (
	"strconv"
	"strings"
	"time"

	"ytsave/internal/progress"
)

// ParseProgress parses a yt-dlp "[download]" line into a progress.Update.
// ok is false for lines that carry no progress information.
func ParseProgress(line, jobID string) (u progress.Update, ok bool) {
	// [download]  45.2% of   10.00MiB at    1.50MiB/s ETA 00:04
	// [download] Downloading item 3 of 12
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[download]") {
		return progress.Update{}, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(line, "[download]"))

	if strings.HasPrefix(rest, "Downloading item ") {
		return progress.Update{
			JobID:   jobID,
			Stage:   progress.StageDownloading,
			Percent: -1,
			Message: strings.TrimPrefix(rest, "Downloading "),
		}, true
	}

	idx := strings.Index(rest, "%")
	if idx == -1 {
		return progress.Update{}, false
	}
	percent, err := strconv.ParseFloat(strings.TrimSpace(rest[:idx]), 64)
	if err != nil {
		return progress.Update{}, false
	}

	var speed *string
	if i := strings.Index(rest, " at "); i != -1 {
		if f := strings.Fields(rest[i+4:]); len(f) > 0 && f[0] != "Unknown" {
			s := f[0]
			speed = &s
		}
	}

	var eta *time.Duration
	if i := strings.Index(rest, "ETA "); i != -1 {
		if f := strings.Fields(rest[i+4:]); len(f) > 0 {
			if d, err := parseETA(f[0]); err == nil {
				eta = &d
			}
		}
	}

	return progress.Update{
		JobID:   jobID,
		Stage:   progress.StageDownloading,
		Percent: percent,
		Speed:   speed,
		ETA:     eta,
		Message: "Downloading",
	}, true
}

// parseETA parses "SS", "MM:SS" and "HH:MM:SS".
func parseETA(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		_, err := strconv.Atoi(s)
		return 0, err
	}
	var total time.Duration
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, err
		}
		total = total*60 + time.Duration(n)
	}
	return total * time.Second, nil
}
