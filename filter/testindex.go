package filter

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// TestIndex is the set of function names that have a unit test. It is built
// once per run, before any filtering, and is read-only afterwards.
type TestIndex struct {
	names       map[string]struct{}
	aliasPrefix string
}

// NewTestIndex builds an index from explicit names, for callers that already
// know the tested set.
func NewTestIndex(names ...string) *TestIndex {
	ix := &TestIndex{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		ix.names[n] = struct{}{}
	}
	return ix
}

// BuildTestIndex walks root and records fn as tested for every file named
// <fn>_test.<ext>. Unreadable directories are skipped rather than fatal:
// tests hidden behind filesystem errors stay undiscovered and the coverage
// they would have justified gets removed, which errs toward dropping
// unverified data.
func BuildTestIndex(root, ext string, extra []string, log *zap.Logger) (*TestIndex, error) {
	ix := NewTestIndex(extra...)
	suffix := "_test." + ext

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A nil entry means the scan root itself could not be read; a
			// missing or mistyped root must not pass as an empty index.
			if d == nil {
				return err
			}
			log.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if name, ok := strings.CutSuffix(d.Name(), suffix); ok && name != "" {
			ix.names[name] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for test files: %w", root, err)
	}

	log.Debug("test index built", zap.String("root", root), zap.Int("functions", len(ix.names)))
	return ix, nil
}

// WithAliasPrefix returns an index that additionally resolves private names:
// with prefix "pcmk__", the function pcmk__foo counts as tested whenever
// pcmk_foo is. Private functions usually do the hard work behind their
// public wrapper, so the public test exercises them well enough. The name
// set is shared with the receiver, neither index changes afterwards.
func (ix *TestIndex) WithAliasPrefix(prefix string) *TestIndex {
	return &TestIndex{names: ix.names, aliasPrefix: prefix}
}

// Tested reports whether fn has a unit test.
func (ix *TestIndex) Tested(fn string) bool {
	if _, ok := ix.names[fn]; ok {
		return true
	}
	if ix.aliasPrefix != "" && strings.HasPrefix(fn, ix.aliasPrefix) {
		public := strings.TrimSuffix(ix.aliasPrefix, "_") + strings.TrimPrefix(fn, ix.aliasPrefix)
		_, ok := ix.names[public]
		return ok
	}
	return false
}
