package filter

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

const endOfRecord = "end_of_record"

// The parser is a two-state machine. A section opens on any line read while
// outside, and closes only on end_of_record. Orphan markers and sections the
// input never closes are parse errors instead of silent fallthrough.
type parseState int

const (
	stateOutside parseState = iota
	stateInSection
)

// ParseReport splits a tracefile into sections. Unrecognized line types
// (TN:, BRDA:, summary counters and anything newer tools emit) are kept in
// the section body untouched, only FN: lines contribute function spans.
func ParseReport(r io.Reader) (*Report, error) {
	rep := &Report{}
	state := stateOutside
	var cur *Section
	lineNo := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: input is not valid UTF-8 text", lineNo)
		}
		if line == "" && state == stateOutside {
			continue
		}

		switch {
		case line == endOfRecord:
			if state == stateOutside {
				return nil, fmt.Errorf("line %d: end_of_record without an open section", lineNo)
			}
			cur.closeSpans()
			rep.Sections = append(rep.Sections, cur)
			cur = nil
			state = stateOutside
		default:
			if state == stateOutside {
				cur = &Section{Line: lineNo}
				state = stateInSection
			}
			cur.addLine(line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if state == stateInSection {
		return nil, fmt.Errorf("line %d: section starting here has no end_of_record", cur.Line)
	}

	return rep, nil
}

func (s *Section) addLine(line string) {
	if path, ok := strings.CutPrefix(line, "SF:"); ok && s.Path == "" {
		s.Path = path
	}
	if start, name, ok := parseFN(line); ok {
		s.Funcs = append(s.Funcs, FuncSpan{Name: name, Start: start})
	}
	s.Lines = append(s.Lines, line)
}

// closeSpans fixes up span ends so each function owns the lines up to the
// next function definition. The last span stays open-ended.
func (s *Section) closeSpans() {
	for i := 0; i < len(s.Funcs)-1; i++ {
		s.Funcs[i].End = s.Funcs[i+1].Start - 1
	}
}

// parseFN decodes "FN:<line>,<name>". Malformed FN lines are not an error,
// they are treated as an unrecognized line type and passed through.
func parseFN(line string) (start int, name string, ok bool) {
	rest, found := strings.CutPrefix(line, "FN:")
	if !found {
		return 0, "", false
	}
	startStr, name, found := strings.Cut(rest, ",")
	if !found {
		return 0, "", false
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, "", false
	}
	return start, name, true
}

// fndaName decodes "FNDA:<count>,<name>", returning the function name.
func fndaName(line string) (string, bool) {
	rest, found := strings.CutPrefix(line, "FNDA:")
	if !found {
		return "", false
	}
	_, name, found := strings.Cut(rest, ",")
	return name, found
}

// daLineNo decodes "DA:<line>,<count>", returning the source line number.
func daLineNo(line string) (int, bool) {
	rest, found := strings.CutPrefix(line, "DA:")
	if !found {
		return 0, false
	}
	lineNoStr, _, found := strings.Cut(rest, ",")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(lineNoStr)
	if err != nil {
		return 0, false
	}
	return n, true
}
