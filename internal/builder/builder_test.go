package builder

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dgallion1/akngest/internal/doctree"
	"github.com/dgallion1/akngest/internal/paragraph"
	"github.com/dgallion1/akngest/internal/segment"
)

func seg(kind doctree.DocKind, number int, lines ...doctree.RawLine) segment.Segment {
	return segment.Segment{
		Entry: doctree.TOCEntry{Kind: kind, Number: number, Title: "Test", StartPage: 4, EndPage: 5},
		Lines: lines,
	}
}

func l(text string) doctree.RawLine  { return doctree.RawLine{Text: text, Page: 4} }
func it(text string) doctree.RawLine { return doctree.RawLine{Text: text, Page: 4, Italic: true} }

func resolutionTwo() segment.Segment {
	return seg(doctree.Resolution, 2,
		l("RESOLUTION 2 (REV. DUBAI, 2018)"),
		l("World telecommunication policy forum"),
		l("The Plenipotentiary Conference of the International Telecommunication Union (Dubai, 2018),"),
		it("considering"),
		l("a) that the forum is use-"),
		l("ful for exchange;"),
		l("b) that it is open,"),
		it("noting"),
		l("the results,"),
		it("noting"),
		l("further results,"),
		it("resolves"),
		l("1 that the forum shall continue:"),
		l("1.1 with a report;"),
		l("1.2 with a review;"),
		l("2 that it\u0007 shall not be binding,"),
		it("instructs the Secretary-General"),
		l("to convene the forum."),
	)
}

func TestBuild_AssignsStructureAndIDs(t *testing.T) {
	doc, warnings, err := Build(resolutionTwo(), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}
	if doc.ID != "res_2" {
		t.Errorf("id = %q", doc.ID)
	}
	if doc.Preamble.EnactingFormula == "" {
		t.Error("missing enacting formula")
	}

	groups := doc.Preamble.Groups
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].ID != "recs_considering" || groups[1].ID != "recs_noting" || groups[2].ID != "recs_noting_2" {
		t.Errorf("group ids = %q %q %q", groups[0].ID, groups[1].ID, groups[2].ID)
	}
	rec := groups[0].Recitals
	if len(rec) != 2 || rec[0].ID != "recs_considering__rec_1" || rec[0].Label != "a)" {
		t.Fatalf("recitals = %+v", rec)
	}
	if rec[0].Text != "that the forum is useful for exchange;" {
		t.Errorf("hyphen not rejoined: %q", rec[0].Text)
	}

	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d", len(doc.Sections))
	}
	res := doc.Sections[0]
	if res.ID != "hcont_resolves" || len(res.Paragraphs) != 2 {
		t.Fatalf("section 0 = %+v", res)
	}
	p1 := res.Paragraphs[0]
	if p1.ID != "hcont_resolves__para_1" {
		t.Errorf("paragraph id = %q", p1.ID)
	}
	if len(p1.SubParagraphs) != 2 || p1.SubParagraphs[1].ID != "hcont_resolves__para_1__point_1-2" {
		t.Errorf("subs = %+v", p1.SubParagraphs)
	}
	if got := res.Paragraphs[1].Text; got != "that it shall not be binding," {
		t.Errorf("control character not removed: %q", got)
	}

	instr := doc.Sections[1]
	if instr.ID != "hcont_instructs_the_secretary_general" {
		t.Errorf("section 1 id = %q", instr.ID)
	}
	if len(instr.Paragraphs) != 1 || instr.Paragraphs[0].ID != "hcont_instructs_the_secretary_general__para_unnumbered" {
		t.Errorf("section 1 paragraphs = %+v", instr.Paragraphs)
	}
}

func TestBuild_IDsUnique(t *testing.T) {
	doc, _, err := Build(resolutionTwo(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	check := func(id string) {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
	for _, g := range doc.Preamble.Groups {
		check(g.ID)
		for _, r := range g.Recitals {
			check(r.ID)
		}
	}
	for _, s := range doc.Sections {
		check(s.ID)
		for _, p := range s.Paragraphs {
			check(p.ID)
			for _, sp := range p.SubParagraphs {
				check(sp.ID)
			}
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	a, _, err := Build(resolutionTwo(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Build(resolutionTwo(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("two builds of the same segment differ")
	}
}

func TestBuild_EmptySegment(t *testing.T) {
	_, _, err := Build(seg(doctree.Decision, 5, l(""), l("   ")), Options{})
	var ae *doctree.AssemblyError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want AssemblyError", err)
	}
	if ae.DocumentID != "dec_5" {
		t.Errorf("document id = %q", ae.DocumentID)
	}
}

func TestBuild_WarningsCarryDocumentID(t *testing.T) {
	s := seg(doctree.Resolution, 7,
		l("The Plenipotentiary Conference (Dubai, 2018),"),
		it("resolves"),
		l("1. one"),
		l("3. three"),
	)
	doc, warnings, err := Build(s, Options{Policy: paragraph.Strict})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].DocumentID != "res_7" || warnings[0].Kind != doctree.WarnParagraphSequence {
		t.Fatalf("warnings = %v", warnings)
	}
	if n := len(doc.Sections[0].Paragraphs); n != 1 {
		t.Errorf("paragraphs = %d, want 1", n)
	}
}

func TestBuild_Annexes(t *testing.T) {
	s := seg(doctree.Resolution, 9,
		it("resolves"),
		l("1 to adopt the annex."),
		l("ANNEX TO RESOLUTION 9"),
		l("Terms of"),
		l("reference"),
	)
	doc, _, err := Build(s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Annexes) != 1 || doc.Annexes[0].Title != "ANNEX TO RESOLUTION 9" || doc.Annexes[0].Text != "Terms of reference" {
		t.Errorf("annexes = %+v", doc.Annexes)
	}
}

func TestBuild_CrossReferenceLineIsNotAnnex(t *testing.T) {
	s := seg(doctree.Resolution, 4,
		it("resolves"),
		l("1. to apply the procedures contained in the"),
		l("annex to Resolution 71 (Rev. Dubai, 2018);"),
		l("2. to report to the next conference."),
	)
	doc, _, err := Build(s, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Annexes) != 0 {
		t.Fatalf("annexes = %+v, want none", doc.Annexes)
	}
	if len(doc.Sections) != 1 || len(doc.Sections[0].Paragraphs) != 2 {
		t.Fatalf("sections = %+v", doc.Sections)
	}
}

func TestBuildAll_KeepsOrderAndIsolatesFailures(t *testing.T) {
	segs := []segment.Segment{
		seg(doctree.Decision, 5, it("decides"), l("1 to approve.")),
		seg(doctree.Resolution, 1, l("")),
		resolutionTwo(),
		seg(doctree.Resolution, 3, it("resolves"), l("1 to continue.")),
	}
	res := BuildAll(context.Background(), segs, Options{}, 2)
	if len(res.Failures) != 1 || res.Failures[0].DocumentID != "res_1" {
		t.Fatalf("failures = %v", res.Failures)
	}
	var ids []string
	for _, d := range res.Documents {
		ids = append(ids, d.ID)
	}
	want := []string{"dec_5", "res_2", "res_3"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}

	sum := res.Summary()
	if sum.Documents != 3 || sum.Failed != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Sections != 4 || sum.RecitalGroups != 3 || sum.SubParagraphs != 2 {
		t.Errorf("summary counts = %+v", sum)
	}
}

func TestBuildAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	segs := []segment.Segment{
		resolutionTwo(),
		seg(doctree.Resolution, 3, it("resolves"), l("1 to continue.")),
	}
	res := BuildAll(ctx, segs, Options{}, 1)
	if got := len(res.Documents) + len(res.Failures); got != 2 {
		t.Errorf("accounted for %d of 2 segments", got)
	}
}
