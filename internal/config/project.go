package config

import (
	"fmt"
	"path/filepath"
	"sort"

	"ytsave/internal/options"
	"ytsave/internal/util"
)

// BuildOptions projects the merged config into a yt-dlp options bag for the
// given profile. It creates the base directory.
func (c *Config) BuildOptions(profile, saveDir, outtmplOverride string) (options.Options, error) {
	opts := options.Options{}

	baseDir, err := c.resolveBaseDir(saveDir)
	if err != nil {
		return nil, err
	}
	if err := util.EnsureDir(baseDir); err != nil {
		return nil, fmt.Errorf("create save dir %s: %w", baseDir, err)
	}
	opts[options.KeyPaths] = map[string]string{"home": baseDir}

	outtmpl := outtmplOverride
	if outtmpl == "" {
		outtmpl, _ = c.Raw["outtmpl"].(string)
	}
	if outtmpl != "" {
		opts[options.KeyOuttmpl] = filepath.ToSlash(filepath.Join(baseDir, outtmpl))
	}

	if p, ok := c.profiles[profile]; ok {
		if p.Format != nil {
			opts["format"] = *p.Format
		}
		if p.MergeOutputFormat != nil {
			opts["merge_output_format"] = *p.MergeOutputFormat
		}
		if p.RemuxVideo != nil {
			opts["remuxvideo"] = *p.RemuxVideo
		}
	}

	behavior, _ := section(c.Raw["behavior"])
	for k, v := range behavior {
		if k == options.KeyDownloadArchive {
			if name, ok := v.(string); ok && name != "" && !filepath.IsAbs(name) {
				v = filepath.Join(baseDir, name)
			}
		}
		opts[k] = v
	}

	network, _ := section(c.Raw["network"])
	for k, v := range network {
		opts[k] = v
	}

	media, _ := section(c.Raw["media"])
	for k, v := range media {
		opts[k] = v
	}

	if c.advanced.OuttmplNAPlaceholder != "" {
		opts["outtmpl_na_placeholder"] = c.advanced.OuttmplNAPlaceholder
	}

	return opts, nil
}

// resolveBaseDir applies explicit > configured > "." and returns an absolute
// path, so yt-dlp's home path and the output template never stack.
func (c *Config) resolveBaseDir(saveDir string) (string, error) {
	dir := saveDir
	if dir == "" {
		dir, _ = c.Raw["save_dir"].(string)
	}
	if dir == "" {
		dir = "."
	}
	dir, err := util.ExpandHome(dir)
	if err != nil {
		return "", fmt.Errorf("expand save dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve save dir: %w", err)
	}
	return abs, nil
}

// SubdirTemplates returns the configured directory templates. A key that is
// absent falls back to the built-in template; a key set to "" (or null) is
// kept empty so that directory level is skipped.
func (c *Config) SubdirTemplates() Subdirs {
	s := c.subdirs
	raw, _ := c.Raw["subdirs"].(map[string]any)
	if _, ok := raw["per_item"]; !ok {
		s.PerItem = DefaultPerItem
	}
	if _, ok := raw["per_playlist"]; !ok {
		s.PerPlaylist = DefaultPerPlaylist
	}
	return s
}

// DefaultSubdirs returns the built-in directory templates.
func DefaultSubdirs() Subdirs {
	return Subdirs{PerItem: DefaultPerItem, PerPlaylist: DefaultPerPlaylist}
}

// FilenameTemplate picks the file part of the output template:
// override > configured outtmpl > built-in default.
func (c *Config) FilenameTemplate(override string) string {
	if override != "" {
		return override
	}
	if t, ok := c.Raw["outtmpl"].(string); ok && t != "" {
		return t
	}
	return DefaultFilename
}

// Advanced returns the decoded "advanced" section.
func (c *Config) Advanced() Advanced {
	return c.advanced
}

// Profiles returns the names of the configured profiles, sorted.
func (c *Config) Profiles() []string {
	names := make([]string, 0, len(c.profiles))
	for n := range c.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
