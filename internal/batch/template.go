package batch

import (
	"strconv"
	"strings"

	"ytsave/internal/config"
	"ytsave/internal/options"
)

// Kind is the probe classification of a URL.
type Kind string

const (
	KindSingle     Kind = "single"
	KindCollection Kind = "collection"
)

// collectionIndex replaces {idx} inside a collection.
const collectionIndex = "%(playlist_index)03d"

const idxMarker = "{idx}"

// ComposeTemplate joins the non-empty parts with "/" and turns every
// backslash into a forward slash, which yt-dlp accepts on every platform.
// Segments are not cleaned: "." and ".." and doubled slashes inside a part
// pass through. An absolute part discards everything before it.
func ComposeTemplate(parts ...string) string {
	var out string
	for _, p := range parts {
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, `\`, "/")
		switch {
		case strings.HasPrefix(p, "/"), out == "":
			out = p
		case strings.HasSuffix(out, "/"):
			out += p
		default:
			out += "/" + p
		}
	}
	return out
}

// ResolveItem returns a copy of base with the output template for item set.
// Collections nest under the per-playlist directory and get playlist mode
// forced on; base is never modified. An empty subdir template drops that
// directory level.
func ResolveItem(base options.Options, item WorkItem, kind Kind, filenameTpl string, subdirs config.Subdirs) options.Options {
	opts := base.Clone()

	perItem, perPlaylist := subdirs.PerItem, subdirs.PerPlaylist
	if filenameTpl == "" {
		filenameTpl = config.DefaultFilename
	}

	baseDir := base.BaseDir()

	var root, filename string
	if kind == KindCollection {
		opts[options.KeyNoPlaylist] = false
		root = ComposeTemplate(baseDir, perPlaylist, perItem)
		filename = strings.ReplaceAll(filenameTpl, idxMarker, collectionIndex)
	} else {
		root = ComposeTemplate(baseDir, perItem)
		filename = strings.ReplaceAll(filenameTpl, idxMarker, strconv.Itoa(item.Index))
	}

	opts[options.KeyOuttmpl] = ComposeTemplate(root, filename)
	return opts
}
