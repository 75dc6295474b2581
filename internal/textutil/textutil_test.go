package textutil

import "testing"

func TestSanitize_RemovesControlCharacters(t *testing.T) {
	got := Sanitize("a\x00b\x07c\x1fd\u0085e")
	if got != "abcde" {
		t.Errorf("got %q, want %q", got, "abcde")
	}
}

func TestSanitize_KeepsWhitespaceAndUnicode(t *testing.T) {
	in := "Secretary‑General\tnoting\r\n«considering»"
	if got := Sanitize(in); got != in {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestSanitize_NormalizesToNFC(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	if got := Sanitize("re\u0301sume"); got != "r\u00e9sume" {
		t.Errorf("got %q", got)
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	got := Sanitize("ok\xffok")
	if got != "ok�ok" {
		t.Errorf("got %q", got)
	}
}

func TestJoinLines_RejoinsHyphenation(t *testing.T) {
	got := JoinLines([]string{"the tele-", "communication sector", "  of the Union "})
	want := "the telecommunication sector of the Union"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJoinLines_KeepsCapitalisedCompound(t *testing.T) {
	got := JoinLines([]string{"instructs the Secretary-", "General to report"})
	want := "instructs the Secretary-General to report"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestJoinLines_KeepsCompoundPrefix(t *testing.T) {
	tests := []struct {
		lines []string
		want  string
	}{
		{[]string{"promote self-", "regulation of the sector"}, "promote self-regulation of the sector"},
		{[]string{"a Multi-", "stakeholder approach"}, "a Multi-stakeholder approach"},
		{[]string{"the nonpro-", "liferation"}, "the nonproliferation"},
	}
	for _, tt := range tests {
		if got := JoinLines(tt.lines); got != tt.want {
			t.Errorf("JoinLines(%q) = %q, want %q", tt.lines, got, tt.want)
		}
	}
}

func TestJoinLines_SkipsBlankLines(t *testing.T) {
	if got := JoinLines([]string{"", "a", "   ", "b"}); got != "a b" {
		t.Errorf("got %q", got)
	}
}
