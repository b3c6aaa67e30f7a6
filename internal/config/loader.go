package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where a config value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for defaults
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> file that set it last
	Files   []string          // loaded files, includes first
	Path    string
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "folio", "config.yaml"), nil
}

// LoadWithSources loads the config at the standard location.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config at path plus its includes. A missing file
// yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	res := &LoadResult{Sources: map[string]Source{}, Path: path}
	raw := RawConfig{}

	if _, err := os.Stat(path); err == nil {
		w := &includeWalker{seen: map[string]bool{}}
		if raw, err = w.load(path); err != nil {
			return nil, err
		}
		res.Sources = w.sources
		res.Files = w.files
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, res.Sources)
	}
	res.Config = cfg
	return res, nil
}

// includeWalker loads a file after its includes, depth first. Later files
// win, and the including file wins over everything it includes.
type includeWalker struct {
	seen    map[string]bool
	stack   []string
	sources map[string]Source
	files   []string
}

func (w *includeWalker) load(path string) (RawConfig, error) {
	file, err := canonicalPath(path)
	if err != nil {
		return RawConfig{}, err
	}
	for _, open := range w.stack {
		if open == file {
			return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(w.stack, " -> "), file)
		}
	}
	if w.seen[file] {
		return RawConfig{}, nil
	}
	w.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	if err := decodeStrictYAML(data, &raw); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}
	sources := map[string]Source{}
	collectSources(rootNode(&doc), file, "", sources)

	merged := RawConfig{}
	w.stack = append(w.stack, file)
	for i, inc := range raw.Include {
		src, ok := sources[fmt.Sprintf("include[%d]", i)]
		if !ok {
			src = sources["include"]
		}
		paths, err := expandInclude(file, inc)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s: include %q: %w", src.position(), inc, err)
		}
		for _, p := range paths {
			incRaw, err := w.load(p)
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(incRaw)
		}
	}
	w.stack = w.stack[:len(w.stack)-1]

	if w.sources == nil {
		w.sources = map[string]Source{}
	}
	for p, src := range sources {
		w.sources[p] = src
	}
	w.files = append(w.files, file)
	return merged.merge(raw), nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include against the including file. A directory
// expands to its *.yaml and *.yml files in name order.
func expandInclude(baseFile, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	path := include
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(baseFile), path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*"))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, m := range matches {
		switch strings.ToLower(filepath.Ext(m)) {
		case ".yaml", ".yml":
			if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func rootNode(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// collectSources records the position of every mapping key and sequence item
// under its dotted path, e.g. "apps[2].title".
func collectSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := node.Content[i].Value
			if prefix != "" {
				path = prefix + "." + path
			}
			val := node.Content[i+1]
			out[path] = at(val)
			collectSources(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = at(node)
		}
		for i, item := range node.Content {
			path := fmt.Sprintf("%s[%d]", prefix, i)
			out[path] = at(item)
			collectSources(item, file, path, out)
		}
	}
}

// withSource points a validation error at the file position of its path, or
// of the nearest parent that has one.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	for path := verr.Path; path != ""; path = parentPath(path) {
		if src, ok := sources[path]; ok {
			verr.Source = src
			break
		}
	}
	return verr
}

func parentPath(path string) string {
	i := strings.LastIndexAny(path, ".[")
	if i <= 0 {
		return ""
	}
	return path[:i]
}
