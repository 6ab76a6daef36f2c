/*
The lcovtrim command removes coverage data for untested functions from lcov
tracefiles.

	Usage: lcovtrim [flags] path/to/coverage.info

Coverage reports collected over a whole test suite credit lines to functions
that no unit test actually targets, because tested code calls into them
incidentally. lcovtrim rewrites the tracefile so only functions with a real
unit test (or functions that cannot have one) keep their coverage, which
makes the per-function coverage numbers honest.

# How it works

For each source-file section in the tracefile:
 1. Splits the section into per-function records (FN:, FNDA: and the DA:
    lines within each function's line range)
 2. Keeps the record if the file lives under the static library directory,
    or if a unit test exists for the function
 3. Drops the record entirely otherwise
 4. Emits everything else, markers and summary counters included, verbatim

A function is considered tested when a file named <function>_test.<ext>
exists anywhere under the source root. Run lcovtrim from the project's
source root, the test scan is relative to the working directory.

# Example

Filter a tracefile produced by lcov and write the result for genhtml:

	$ lcovtrim coverage.info > filtered.info

# Flags

The -lib flag names the directory holding statically scoped sources
(default "lib"). Their coverage is never removed, static functions don't
get unit tests of their own.

The -ext flag sets the source extension used by the test naming convention
(default "c").

The -tested flag lists extra function names, comma-separated, to count as
tested regardless of test files. Useful for functions sharing a test file
that doesn't match their name.

The -alias-prefix flag enables the private-name rule: with -alias-prefix
pcmk__, the function pcmk__foo counts as tested whenever pcmk_foo is.

The -debug flag enables verbose debug output on stderr.

# Output

The filtered report goes to standard output and stays valid lcov syntax.
Section order, record order and all unrecognized line types (branch data,
test names) are preserved. Summary counters (FNF:, FNH:, LF:, LH:) pass
through unchanged, so they may overstate the filtered data; downstream
tools tolerate this.

# Limitations

The tool only removes records, it never renormalizes totals or merges
tracefiles. Filesystem errors during the test-file scan are not fatal:
unreadable directories are skipped, and functions whose tests hide there
lose their coverage.
*/
package main
