package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNoDownloader is returned when yt-dlp cannot be located.
var ErrNoDownloader = errors.New("could not find yt-dlp in PATH; install it from https://github.com/yt-dlp/yt-dlp")

// FindDownloader returns the path to yt-dlp. A non-empty customPath is tried
// as a file first, then looked up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		if st, err := os.Stat(customPath); err == nil && !st.IsDir() {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("could not find yt-dlp at %q", customPath)
	}
	if p, err := exec.LookPath("yt-dlp"); err == nil {
		return p, nil
	}
	return "", ErrNoDownloader
}

// FindFFmpeg returns the path to ffmpeg. yt-dlp needs it for merging
// separate video/audio streams and for embedding subtitles and thumbnails.
func FindFFmpeg() (string, error) {
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", errors.New("could not find ffmpeg in PATH; merged formats and embedding will not work")
}
