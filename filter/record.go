package filter

// Section represents one source-file record of an lcov tracefile: the SF:
// path plus every body line between the section opening and its
// end_of_record marker.
type Section struct {
	Path  string     // source file path from the SF: line, empty if absent
	Line  int        // 1-based input line number of the first section line
	Lines []string   // body lines in input order, end_of_record excluded
	Funcs []FuncSpan // function spans in FN: line order
}

// FuncSpan is the source line range owned by one function record. End is 0
// for the last function of a section, meaning the span is open-ended.
type FuncSpan struct {
	Name  string
	Start int
	End   int
}

// Contains reports whether a source line number falls within the span.
func (fs FuncSpan) Contains(lineNo int) bool {
	return lineNo >= fs.Start && (fs.End == 0 || lineNo <= fs.End)
}

// Report is a fully parsed tracefile, sections in input order.
type Report struct {
	Sections []*Section
}
