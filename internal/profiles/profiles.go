// Package profiles is the per-profile option rewriting stage. Format and
// container choices are already merged by the config projection, so Apply
// currently passes the bag through untouched.
package profiles

import "ytsave/internal/options"

// Known profile names, in flag-help order.
const (
	WebM = "webm"
	MP4  = "mp4"
	MKV  = "mkv"
)

// Names lists the profiles accepted by --profile.
func Names() []string {
	return []string{WebM, MP4, MKV}
}

// Valid reports whether name is an accepted profile.
func Valid(name string) bool {
	for _, n := range Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Apply returns opts as given.
func Apply(opts options.Options, _ string) options.Options {
	return opts
}
