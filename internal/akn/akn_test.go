package akn

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/akngest/internal/doctree"
)

func sampleDocument() *doctree.Document {
	return &doctree.Document{
		ID:       "res_2",
		Kind:     doctree.Resolution,
		Number:   2,
		Revision: "REV. DUBAI, 2018",
		Title:    "World telecommunication/ICT policy forum",
		Part:     "PART II – RESOLUTIONS",
		Preamble: doctree.Preamble{
			EnactingFormula: "The Plenipotentiary Conference of the International Telecommunication Union (Dubai, 2018),",
			Groups: []doctree.RecitalGroup{{
				ID:      "recs_considering",
				Keyword: "considering",
				Recitals: []doctree.Recital{
					{ID: "recs_considering__rec_1", GroupKeyword: "considering", Sequence: 1, Label: "a)", Text: "that the forum is useful;"},
					{ID: "recs_considering__rec_2", GroupKeyword: "considering", Sequence: 2, Label: "b)", Text: "that R&D <matters>,"},
				},
			}},
		},
		Sections: []doctree.OperativeSection{
			{
				ID:      "hcont_resolves",
				Keyword: "resolves",
				Paragraphs: []doctree.Paragraph{
					{
						ID: "hcont_resolves__para_1", Number: 1, Text: "that the forum shall continue:",
						SubParagraphs: []doctree.SubParagraph{
							{ID: "hcont_resolves__para_1__point_1-1", NumberLabel: "1", Style: doctree.StyleDecimal, Text: "with a report;"},
							{ID: "hcont_resolves__para_1__point_1-2", NumberLabel: "2", Style: doctree.StyleDecimal, Text: "with a review;"},
						},
					},
					{ID: "hcont_resolves__para_2", Number: 2, Text: "that it is not binding,"},
				},
			},
			{
				ID:      "hcont_instructs_the_secretary_general",
				Keyword: "instructs the Secretary-General",
				Paragraphs: []doctree.Paragraph{
					{
						ID: "hcont_instructs_the_secretary_general__para_unnumbered", Text: "to:",
						SubParagraphs: []doctree.SubParagraph{
							{ID: "hcont_instructs_the_secretary_general__para_unnumbered__point_a", NumberLabel: "a", Style: doctree.StyleLettered, Text: "convene the forum;"},
						},
					},
				},
			},
		},
		Annexes: []doctree.Annex{{Title: "ANNEX TO RESOLUTION 2", Text: "Terms of reference"}},
	}
}

func sampleCollection() *doctree.Collection {
	dec := &doctree.Document{
		ID: "dec_5", Kind: doctree.Decision, Number: 5, Title: "Budget", Part: "PART I – DECISIONS",
		Sections: []doctree.OperativeSection{{
			ID: "hcont_unlabeled",
			Paragraphs: []doctree.Paragraph{
				{ID: "hcont_unlabeled__para_1", Number: 1, Text: "that the budget is approved."},
			},
		}},
	}
	return &doctree.Collection{
		Conference: doctree.DefaultConference(),
		Documents:  []*doctree.Document{dec, sampleDocument()},
	}
}

var fixedDate = Options{Generated: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)}

func TestEncodeDocument_Markup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeDocument(&buf, sampleDocument(), doctree.DefaultConference(), fixedDate))
	out := buf.String()

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<akomaNtoso xmlns="http://docs.oasis-open.org/legaldocml/ns/akn/3.0">`,
		`<statement name="resolution" xml:lang="en">`,
		`<FRBRthis value="/akn/un/statement/deliberation/itu-pp/2018-11-15/res-2/!main"></FRBRthis>`,
		`<FRBRuri value="/akn/un/statement/deliberation/itu-pp/2018-11-15/res-2/eng@2018-11-15"></FRBRuri>`,
		`<FRBRthis value="/akn/un/statement/deliberation/itu-pp/2018-11-15/res-2/eng@2018-11-15/.xml"></FRBRthis>`,
		`<FRBRnumber value="res-2" showAs="RESOLUTION 2 (REV. DUBAI, 2018)"></FRBRnumber>`,
		`<FRBRdate date="2026-10-19" name="XMLMarkup"></FRBRdate>`,
		`<docNumber>2 (REV. DUBAI, 2018)</docNumber>`,
		`<formula name="enactingFormula" eId="formula_1">`,
		`<recitals eId="recs_considering">`,
		`<i>considering</i>`,
		`<num>a)</num>`,
		`that R&amp;D &lt;matters&gt;,`,
		`<hcontainer name="resolves" eId="hcont_resolves">`,
		`<paragraph eId="hcont_resolves__para_1">`,
		`<list eId="hcont_resolves__para_1__list_1">`,
		`<point eId="hcont_resolves__para_1__point_1-2">`,
		`<num>1.2</num>`,
		`<paragraph eId="hcont_instructs_the_secretary_general__para_unnumbered">`,
		`<attachment eId="att_1">`,
		`<doc name="annex">`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "documentCollection")
}

func TestEncodeCollection_Markup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeCollection(&buf, sampleCollection(), fixedDate))
	out := buf.String()

	for _, want := range []string{
		`<documentCollection name="finalActs" xml:lang="en">`,
		`<FRBRuri value="/akn/un/officialGazette/publication/itu-pp/2018-11-15/pp-18-final-acts"></FRBRuri>`,
		`<FRBRnumber value="pp-18-final-acts" showAs="Final Acts PP-18"></FRBRnumber>`,
		`<TLCOrganization eId="converter" href="/ontology/software/akn4itu-converter"`,
		`<docType>FINAL ACTS</docType>`,
		`<docTitle>of the Plenipotentiary Conference (Dubai, 2018)</docTitle>`,
		`<componentRef src="#cmp_res_2" showAs="PART II – RESOLUTIONS: RESOLUTION 2 (REV. DUBAI, 2018)"></componentRef>`,
		`<component eId="cmp_dec_5">`,
		`<hcontainer name="unlabeled" eId="hcont_unlabeled">`,
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "cmp_dec_5"), strings.Index(out, "cmp_res_2"))
}

func TestDecode_CollectionRoundTrip(t *testing.T) {
	in := sampleCollection()
	data, err := MarshalCollection(in, fixedDate)
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, in.Conference, got.Conference)
	require.Len(t, got.Documents, len(in.Documents))
	for i := range in.Documents {
		assert.Equal(t, in.Documents[i], got.Documents[i])
	}
}

func TestDecode_StandaloneStatement(t *testing.T) {
	d := sampleDocument()
	data, err := MarshalDocument(d, doctree.DefaultConference(), fixedDate)
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, doctree.DefaultConference(), got.Conference)
	require.Len(t, got.Documents, 1)

	// The part only travels on the collection's componentRef.
	want := *d
	want.Part = ""
	assert.Equal(t, &want, got.Documents[0])
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(strings.NewReader(`<akomaNtoso xmlns="` + Namespace + `"></akomaNtoso>`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`<akomaNtoso><statement name="memo"></statement></akomaNtoso>`))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader(`not xml`))
	assert.Error(t, err)
}

func TestIRIs(t *testing.T) {
	conf := doctree.DefaultConference()
	d := &doctree.Document{Kind: doctree.Decision, Number: 11}
	assert.Equal(t, "/akn/un/statement/deliberation/itu-pp/2018-11-15/dec-11", WorkIRI(conf, d))
	assert.Equal(t, "/akn/un/officialGazette/publication/itu-pp/2018-11-15/pp-18-final-acts", CollectionIRI(conf))
	assert.Equal(t, "/akn/un/statement/deliberation/itu-pp/2018-11-15/dec-11/eng@2018-11-15/.xml", manifestationIRI(WorkIRI(conf, d), conf))
}
