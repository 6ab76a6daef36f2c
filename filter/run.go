package filter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Runner specifies all configuration for one filtering pass over a coverage
// tracefile.
type Runner struct {
	writer io.Writer
	log    *zap.Logger
	path   string

	// LibDir is the directory holding statically scoped sources. Function
	// records from files under it are never removed, static functions get no
	// unit tests of their own.
	LibDir string
	// Ext is the source extension used by the <function>_test.<ext> naming
	// convention.
	Ext string
	// ExtraTested lists functions counted as tested even without a matching
	// test file. Some functions share a test file that doesn't match their
	// name, like case-sensitive and case-insensitive string variants.
	ExtraTested []string
	// AliasPrefix enables the private/public alias rule of TestIndex.
	AliasPrefix string
	// SourceRoot is the project source root, scanned for test files and
	// stripped from absolute SF: paths.
	SourceRoot string
}

// New creates a runner that filters the tracefile at path and writes the
// result to writer. Fields default to the pacemaker conventions the tool
// grew up with: static code under lib/, C sources, working directory as
// source root.
func New(writer io.Writer, log *zap.Logger, path string) *Runner {
	return &Runner{
		writer:     writer,
		log:        log,
		path:       path,
		LibDir:     "lib",
		Ext:        "c",
		SourceRoot: ".",
	}
}

// Run parses the tracefile, builds the test index, filters and writes the
// result. The report is filtered fully in memory before the first byte of
// output, a failing run produces no partial report.
func (r *Runner) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("failed to open coverage file: %w", err)
	}
	defer f.Close()

	rep, err := ParseReport(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", r.path, err)
	}
	r.log.Debug("parsed report", zap.String("path", r.path), zap.Int("sections", len(rep.Sections)))

	ix, err := BuildTestIndex(r.SourceRoot, r.Ext, r.ExtraTested, r.log)
	if err != nil {
		return err
	}
	ix = ix.WithAliasPrefix(r.AliasPrefix)

	removed := FilterReport(rep, ix, r.LibDir, r.SourceRoot)
	r.log.Debug("filtered report", zap.Int("removed", removed))

	if err := rep.Render(r.writer); err != nil {
		return fmt.Errorf("failed to write filtered report: %w", err)
	}
	return nil
}

// FilterReport removes every function record that is neither static nor
// tested, along with its FNDA: and DA: lines. Sections are modified in
// place; section order, the order of surviving lines and all summary
// counters are left untouched. Summary counts may therefore overstate the
// filtered data, the tool only removes records, it does not renormalize
// totals. Returns the number of removed function records.
func FilterReport(rep *Report, ix *TestIndex, libDir, sourceRoot string) (removed int) {
	for _, sec := range rep.Sections {
		if IsStatic(libDir, relSourcePath(sourceRoot, sec.Path)) {
			continue
		}

		kept := make([]FuncSpan, 0, len(sec.Funcs))
		var dropped []FuncSpan
		for _, fn := range sec.Funcs {
			if ix.Tested(fn.Name) {
				kept = append(kept, fn)
			} else {
				dropped = append(dropped, fn)
			}
		}
		if len(dropped) == 0 {
			continue
		}
		removed += len(dropped)
		sec.Funcs = kept

		droppedNames := make(map[string]struct{}, len(dropped))
		for _, fn := range dropped {
			droppedNames[fn.Name] = struct{}{}
		}

		lines := make([]string, 0, len(sec.Lines))
		for _, line := range sec.Lines {
			if !dropsLine(line, droppedNames, dropped) {
				lines = append(lines, line)
			}
		}
		sec.Lines = lines
	}
	return removed
}

// dropsLine reports whether a section body line belongs to one of the
// dropped function records: its FN: definition, its FNDA: execution count,
// or a DA: line within its span.
func dropsLine(line string, names map[string]struct{}, spans []FuncSpan) bool {
	if _, name, ok := parseFN(line); ok {
		_, drop := names[name]
		return drop
	}
	if name, ok := fndaName(line); ok {
		_, drop := names[name]
		return drop
	}
	if n, ok := daLineNo(line); ok {
		for _, fn := range spans {
			if fn.Contains(n) {
				return true
			}
		}
	}
	return false
}

// IsStatic reports whether path lies under libDir. Pure path prefix test, no
// filesystem access.
func IsStatic(libDir, path string) bool {
	libDir = strings.TrimSuffix(libDir, "/")
	if libDir == "" || path == "" {
		return false
	}
	return path == libDir || strings.HasPrefix(path, libDir+"/")
}

// relSourcePath strips the source root from an absolute SF: path, since
// tracefiles produced in-tree record absolute paths.
func relSourcePath(root, path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	return strings.TrimPrefix(path, abs+"/")
}

// Render serializes the report back into tracefile syntax.
func (rep *Report) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sec := range rep.Sections {
		for _, line := range sec.Lines {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw, endOfRecord); err != nil {
			return err
		}
	}
	return bw.Flush()
}
