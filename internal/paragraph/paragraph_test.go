package paragraph

import (
	"testing"

	"github.com/dgallion1/akngest/internal/doctree"
)

func linesOf(texts ...string) []doctree.RawLine {
	out := make([]doctree.RawLine, len(texts))
	for i, t := range texts {
		out[i] = doctree.RawLine{Text: t, Page: 4}
	}
	return out
}

func TestSegment_DecimalSubParagraphs(t *testing.T) {
	drafts, warnings := Segment(linesOf("1. Text A", "1.1 Sub A", "1.2 Sub B", "2. Text B"), Strict)
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}
	if len(drafts) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(drafts))
	}
	first := drafts[0]
	if first.Number != 1 || first.Text != "Text A" {
		t.Errorf("first = %d %q", first.Number, first.Text)
	}
	if len(first.Subs) != 2 {
		t.Fatalf("first has %d subs, want 2", len(first.Subs))
	}
	if first.Subs[0].Label != "1" || first.Subs[0].Text != "Sub A" || first.Subs[0].Style != doctree.StyleDecimal {
		t.Errorf("sub 0 = %+v", first.Subs[0])
	}
	if first.Subs[1].Label != "2" || first.Subs[1].Text != "Sub B" {
		t.Errorf("sub 1 = %+v", first.Subs[1])
	}
	if drafts[1].Number != 2 || drafts[1].Text != "Text B" || len(drafts[1].Subs) != 0 {
		t.Errorf("second = %+v", drafts[1])
	}
}

func TestSegment_NumberAloneOnLine(t *testing.T) {
	drafts, _ := Segment(linesOf("1", "that the forum shall", "continue;", "2", "that it shall report;", "10 that it ends."), Increasing)
	if len(drafts) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(drafts))
	}
	if drafts[0].Text != "that the forum shall continue;" {
		t.Errorf("text = %q", drafts[0].Text)
	}
	if drafts[2].Number != 10 || drafts[2].Text != "that it ends." {
		t.Errorf("third = %+v", drafts[2])
	}
}

func TestSegment_StrictRejectsGap(t *testing.T) {
	drafts, warnings := Segment(linesOf("1. One", "2. Two", "4. Four"), Strict)
	if len(drafts) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(drafts))
	}
	if drafts[1].Text != "Two 4. Four" {
		t.Errorf("gap line not kept as body text: %q", drafts[1].Text)
	}
	if len(warnings) != 1 || warnings[0].Kind != doctree.WarnParagraphSequence || warnings[0].Page != 4 {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestSegment_IncreasingAcceptsGapWithWarning(t *testing.T) {
	drafts, warnings := Segment(linesOf("1. One", "2. Two", "4. Four"), Increasing)
	if len(drafts) != 3 || drafts[2].Number != 4 {
		t.Fatalf("drafts = %+v", drafts)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestSegment_NonIncreasingAlwaysBodyText(t *testing.T) {
	for _, p := range []Policy{Strict, Increasing} {
		drafts, _ := Segment(linesOf("1. One", "2. Two", "2. Again", "1 more"), p)
		if len(drafts) != 2 {
			t.Errorf("%v: got %d paragraphs, want 2", p, len(drafts))
		}
	}
}

func TestSegment_NumbersStrictlyIncrease(t *testing.T) {
	drafts, _ := Segment(linesOf("1. a", "3. b", "2. c", "5 d", "3. e", "4. f"), Increasing)
	for i := 1; i < len(drafts); i++ {
		if drafts[i].Number <= drafts[i-1].Number {
			t.Fatalf("numbers not increasing: %d after %d", drafts[i].Number, drafts[i-1].Number)
		}
	}
}

func TestSegment_LeadInText(t *testing.T) {
	drafts, _ := Segment(linesOf("that the following apply:", "1. first"), Strict)
	if len(drafts) != 2 || drafts[0].Number != 0 || drafts[0].Text != "that the following apply:" {
		t.Fatalf("drafts = %+v", drafts)
	}
}

func TestSegment_LetteredStyleLocks(t *testing.T) {
	drafts, warnings := Segment(linesOf(
		"1 that the Council shall:",
		"a) review the plan;",
		"1.1 which looks numeric;",
		"b) report back.",
	), Strict)
	if len(drafts) != 1 {
		t.Fatalf("got %d paragraphs", len(drafts))
	}
	subs := drafts[0].Subs
	if len(subs) != 2 {
		t.Fatalf("got %d subs, want 2", len(subs))
	}
	for _, s := range subs {
		if s.Style != doctree.StyleLettered {
			t.Errorf("sub %q style = %v", s.Label, s.Style)
		}
	}
	if subs[0].Text != "review the plan; 1.1 which looks numeric;" {
		t.Errorf("sub a = %q", subs[0].Text)
	}
	if len(warnings) != 1 || warnings[0].Kind != doctree.WarnSubParagraphStyle {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestSegment_DecimalStyleLocks(t *testing.T) {
	drafts, _ := Segment(linesOf("2. Two", "2.1 first", "a) looks lettered", "2.2 second"), Increasing)
	if len(drafts) != 1 {
		t.Fatalf("got %d paragraphs", len(drafts))
	}
	if subs := drafts[0].Subs; len(subs) != 2 || subs[1].Label != "2" {
		t.Fatalf("subs = %+v", subs)
	}
}

func TestSegment_DecimalMustMatchParent(t *testing.T) {
	drafts, _ := Segment(linesOf("1. One", "2.1 stray reference"), Strict)
	if len(drafts[0].Subs) != 0 {
		t.Errorf("subs = %+v", drafts[0].Subs)
	}
}

func TestSegment_UnnumberedLetteredItems(t *testing.T) {
	drafts, _ := Segment(linesOf("that Member States should:", "a) act;", "b) report."), Strict)
	if len(drafts) != 1 || drafts[0].Number != 0 || len(drafts[0].Subs) != 2 {
		t.Fatalf("drafts = %+v", drafts)
	}
}

func TestRecitals_LetteredWithIntro(t *testing.T) {
	got := Recitals(linesOf("the following,", "a) that the forum", "is useful;", "b) that it is open,", "d) not a label"))
	if len(got) != 3 {
		t.Fatalf("got %d recitals, want 3: %+v", len(got), got)
	}
	if got[0].Label != "" || got[0].Text != "the following," {
		t.Errorf("intro = %+v", got[0])
	}
	if got[1].Label != "a)" || got[1].Text != "that the forum is useful;" {
		t.Errorf("a = %+v", got[1])
	}
	if got[2].Label != "b)" || got[2].Text != "that it is open, d) not a label" {
		t.Errorf("b = %+v", got[2])
	}
}

func TestRecitals_Unlabeled(t *testing.T) {
	got := Recitals(linesOf("that the forum", "is useful,"))
	if len(got) != 1 || got[0].Label != "" || got[0].Text != "that the forum is useful," {
		t.Fatalf("got %+v", got)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("Increasing"); err != nil || p != Increasing {
		t.Errorf("got %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != Strict {
		t.Errorf("got %v, %v", p, err)
	}
	if _, err := ParsePolicy("lenient"); err == nil {
		t.Error("expected error")
	}
}
