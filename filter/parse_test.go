package filter_test

import (
	"strings"

	"github.com/arxeiss/lcovtrim/filter"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseReport", func() {
	parse := func(input string) (*filter.Report, error) {
		return filter.ParseReport(strings.NewReader(input))
	}

	It("parses empty input into zero sections", func() {
		rep, err := parse("")
		Expect(err).To(Succeed())
		Expect(rep.Sections).To(BeEmpty())
	})

	It("ignores blank lines between sections", func() {
		rep, err := parse("\nSF:a.c\nend_of_record\n\n\nSF:b.c\nend_of_record\n\n")
		Expect(err).To(Succeed())
		Expect(rep.Sections).To(HaveLen(2))
		Expect(rep.Sections[0].Path).To(Equal("a.c"))
		Expect(rep.Sections[1].Path).To(Equal("b.c"))
	})

	It("fails on end_of_record without an open section", func() {
		_, err := parse("end_of_record\n")
		Expect(err).To(MatchError("line 1: end_of_record without an open section"))
	})

	It("fails on a doubled end_of_record", func() {
		_, err := parse("SF:a.c\nend_of_record\nend_of_record\n")
		Expect(err).To(MatchError("line 3: end_of_record without an open section"))
	})

	It("fails on a section the input never closes", func() {
		_, err := parse("TN:\nSF:a.c\nFN:1,foo\n")
		Expect(err).To(MatchError("line 1: section starting here has no end_of_record"))
	})

	It("fails on input that is not valid text", func() {
		_, err := parse("SF:a.c\nFN:1,\xff\xfe\nend_of_record\n")
		Expect(err).To(MatchError("line 2: input is not valid UTF-8 text"))
	})

	It("records the section path from the first SF line", func() {
		rep, err := parse("TN:\nSF:src/one.c\nSF:src/two.c\nend_of_record\n")
		Expect(err).To(Succeed())
		Expect(rep.Sections).To(HaveLen(1))
		Expect(rep.Sections[0].Path).To(Equal("src/one.c"))
		Expect(rep.Sections[0].Line).To(Equal(1))
	})

	It("builds function spans ending before the next definition", func() {
		rep, err := parse("SF:a.c\nFN:5,first\nFN:12,second\nend_of_record\n")
		Expect(err).To(Succeed())
		Expect(rep.Sections[0].Funcs).To(Equal([]filter.FuncSpan{
			{Name: "first", Start: 5, End: 11},
			{Name: "second", Start: 12, End: 0},
		}))
	})

	It("keeps unrecognized line types in the section body", func() {
		rep, err := parse("TN:\nSF:a.c\nBRDA:4,0,1,2\nBRF:1\nBRH:1\nVER:2.0\nend_of_record\n")
		Expect(err).To(Succeed())
		Expect(rep.Sections[0].Lines).To(Equal([]string{
			"TN:", "SF:a.c", "BRDA:4,0,1,2", "BRF:1", "BRH:1", "VER:2.0",
		}))
	})

	It("treats malformed FN lines as unrecognized", func() {
		rep, err := parse("SF:a.c\nFN:notanumber,foo\nFN:8\nend_of_record\n")
		Expect(err).To(Succeed())
		Expect(rep.Sections[0].Funcs).To(BeEmpty())
		Expect(rep.Sections[0].Lines).To(ContainElements("FN:notanumber,foo", "FN:8"))
	})
})

var _ = Describe("FuncSpan", func() {
	It("contains lines up to its end", func() {
		fs := filter.FuncSpan{Name: "foo", Start: 5, End: 9}
		Expect(fs.Contains(4)).To(BeFalse())
		Expect(fs.Contains(5)).To(BeTrue())
		Expect(fs.Contains(9)).To(BeTrue())
		Expect(fs.Contains(10)).To(BeFalse())
	})

	It("is open-ended with a zero end", func() {
		fs := filter.FuncSpan{Name: "foo", Start: 5}
		Expect(fs.Contains(4)).To(BeFalse())
		Expect(fs.Contains(100000)).To(BeTrue())
	})
})
