// Package akn maps the document model to Akoma Ntoso (AKN4UN) XML and back.
package akn

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/akngest/internal/doctree"
)

// Options controls serialization.
type Options struct {
	// Generated is the FRBRManifestation date. Zero means today.
	Generated time.Time
}

func (o Options) generated() string {
	t := o.Generated
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("2006-01-02")
}

// EncodeCollection writes the whole collection as one documentCollection.
func EncodeCollection(w io.Writer, c *doctree.Collection, opts Options) error {
	gen := opts.generated()
	conf := c.Conference
	coll := &xmlCollection{
		Name:    "finalActs",
		Lang:    "en",
		Meta:    collectionMeta(conf, gen),
		Preface: xmlPreface{LongTitle: xmlLongTitle{P: xmlTitleP{DocType: "FINAL ACTS", DocTitle: conferenceTitle(conf)}}},
	}
	for _, d := range c.Documents {
		cmp := doctree.ComponentID(d.ID)
		coll.Body.Components = append(coll.Body.Components, xmlComponentRefHolder{
			EId: "ref_" + cmp,
			Ref: xmlComponentRef{Src: "#" + cmp, ShowAs: componentLabel(d)},
		})
		coll.Components.Components = append(coll.Components.Components, xmlComponent{
			EId:       cmp,
			Statement: statement(d, conf, gen),
		})
	}
	return write(w, xmlAkomaNtoso{Xmlns: Namespace, Collection: coll})
}

// EncodeDocument writes one document as a standalone statement.
func EncodeDocument(w io.Writer, d *doctree.Document, conf doctree.Conference, opts Options) error {
	st := statement(d, conf, opts.generated())
	return write(w, xmlAkomaNtoso{Xmlns: Namespace, Statement: &st})
}

// MarshalDocument is EncodeDocument into a byte slice.
func MarshalDocument(d *doctree.Document, conf doctree.Conference, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, d, conf, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCollection is EncodeCollection into a byte slice.
func MarshalCollection(c *doctree.Collection, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeCollection(&buf, c, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(w io.Writer, root xmlAkomaNtoso) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode akn: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write akn: %w", err)
	}
	return nil
}

func conferenceTitle(conf doctree.Conference) string {
	return fmt.Sprintf("of the %s (%s, %d)", conf.Name, conf.Location, conf.Year)
}

// componentLabel is the componentRef showAs, prefixed by the part name.
func componentLabel(d *doctree.Document) string {
	label := displayNumber(d)
	if d.Part != "" {
		return d.Part + ": " + label
	}
	return label
}

// displayNumber renders "RESOLUTION 2 (REV. DUBAI, 2018)".
func displayNumber(d *doctree.Document) string {
	return strings.ToUpper(d.Kind.String()) + " " + docNumber(d)
}

// docNumber renders "2 (REV. DUBAI, 2018)".
func docNumber(d *doctree.Document) string {
	n := strconv.Itoa(d.Number)
	if d.Revision != "" {
		n += " (" + d.Revision + ")"
	}
	return n
}

func references(conf doctree.Conference) *xmlReferences {
	return &xmlReferences{
		Source: "#converter",
		Organizations: []xmlTLCOrganization{
			{EId: "itu", Href: "/ontology/organizations/itu", ShowAs: "International Telecommunication Union"},
			{EId: conf.Actor, Href: "/ontology/organizations/" + conf.Actor, ShowAs: "ITU " + conf.Name + " (" + conf.Location + ", " + strconv.Itoa(conf.Year) + ")"},
			{EId: "converter", Href: "/ontology/software/akn4itu-converter", ShowAs: "akngest converter"},
		},
	}
}

func identification(work, dateName, subtype string, number xmlValue, conf doctree.Conference, gen string) xmlIdentification {
	expr := expressionIRI(work, conf)
	manif := manifestationIRI(work, conf)
	author := xmlHref{Href: "#" + conf.Actor}
	return xmlIdentification{
		Source: "#itu",
		Work: &xmlFRBR{
			This:    xmlValue{Value: mainOf(work)},
			URI:     xmlValue{Value: work},
			Date:    xmlDate{Date: conf.Date, Name: dateName},
			Author:  author,
			Country: &xmlValue{Value: "un"},
			Subtype: &xmlValue{Value: subtype},
			Number:  &number,
		},
		Expression: &xmlFRBR{
			This:     xmlValue{Value: mainOf(expr)},
			URI:      xmlValue{Value: expr},
			Date:     xmlDate{Date: conf.Date, Name: dateName},
			Author:   author,
			Language: &xmlLangRef{Language: language},
		},
		Manifestation: &xmlFRBR{
			This:   xmlValue{Value: manif},
			URI:    xmlValue{Value: manif},
			Date:   xmlDate{Date: gen, Name: "XMLMarkup"},
			Author: xmlHref{Href: "#converter"},
		},
	}
}

func collectionMeta(conf doctree.Conference, gen string) xmlMeta {
	yy := fmt.Sprintf("%02d", conf.Year%100)
	number := xmlValue{
		Value:  collectionNumber(conf),
		ShowAs: "Final Acts " + strings.ToUpper(shortActor(conf)) + "-" + yy,
	}
	return xmlMeta{
		Identification: identification(CollectionIRI(conf), "publication", "publication", number, conf, gen),
		References:     references(conf),
	}
}

func statement(d *doctree.Document, conf doctree.Conference, gen string) xmlStatement {
	number := xmlValue{Value: NumberValue(d), ShowAs: displayNumber(d)}
	st := xmlStatement{
		Name: strings.ToLower(d.Kind.String()),
		Lang: "en",
		Meta: xmlMeta{
			Identification: identification(WorkIRI(conf, d), "adoption", "deliberation", number, conf, gen),
			References:     references(conf),
		},
		Preface: xmlPreface{
			LongTitle: xmlLongTitle{
				EId: "longTitle_1",
				P:   xmlTitleP{DocType: strings.ToUpper(d.Kind.String()), DocNumber: docNumber(d)},
			},
		},
		MainBody: xmlMainBody{EId: "body"},
	}
	if d.Title != "" {
		st.Preface.Container = &xmlContainer{Name: "title", EId: "container_title", P: d.Title}
	}

	if pre := d.Preamble; pre.EnactingFormula != "" || len(pre.Groups) > 0 {
		xp := &xmlPreamble{EId: "preamble"}
		if pre.EnactingFormula != "" {
			xp.Formula = &xmlFormula{Name: "enactingFormula", EId: "formula_1", P: pre.EnactingFormula}
		}
		for _, g := range pre.Groups {
			xr := xmlRecitals{EId: g.ID, Intro: xmlKeywordP{P: xmlItalic{I: g.Keyword}}}
			for _, r := range g.Recitals {
				xr.Recitals = append(xr.Recitals, xmlRecital{EId: r.ID, Num: r.Label, P: r.Text})
			}
			xp.Recitals = append(xp.Recitals, xr)
		}
		st.Preamble = xp
	}

	for _, sec := range d.Sections {
		st.MainBody.Containers = append(st.MainBody.Containers, hcontainer(sec))
	}

	if len(d.Annexes) > 0 {
		atts := &xmlAttachments{}
		for i, a := range d.Annexes {
			heading := a.Title
			if heading == "" {
				heading = fmt.Sprintf("Annex %d", i+1)
			}
			atts.Attachments = append(atts.Attachments, xmlAttachment{
				EId:     fmt.Sprintf("att_%d", i+1),
				Heading: heading,
				Doc: xmlAnnex{
					Name:     "annex",
					Meta:     xmlMeta{Identification: xmlIdentification{Source: "#itu"}},
					MainBody: xmlMainBody{Ps: []string{a.Text}},
				},
			})
		}
		st.Attachments = atts
	}
	return st
}

func hcontainer(sec doctree.OperativeSection) xmlHContainer {
	hc := xmlHContainer{Name: "unlabeled", EId: sec.ID}
	if sec.Keyword != "" {
		hc.Name = doctree.Slug(sec.Keyword)
		hc.Heading = &xmlItalic{I: sec.Keyword}
	}
	for _, p := range sec.Paragraphs {
		xp := xmlParagraph{EId: p.ID}
		if p.Number > 0 {
			xp.Num = strconv.Itoa(p.Number)
		}
		if len(p.SubParagraphs) == 0 {
			xp.Content = &xmlBlock{P: p.Text}
		} else {
			if p.Text != "" {
				xp.Intro = &xmlBlock{P: p.Text}
			}
			xp.List = &xmlList{EId: doctree.ListID(p.ID)}
			for _, sp := range p.SubParagraphs {
				xp.List.Points = append(xp.List.Points, xmlPoint{
					EId:     sp.ID,
					Num:     sp.DisplayLabel(p.Number),
					Content: xmlBlock{P: sp.Text},
				})
			}
		}
		hc.Paragraphs = append(hc.Paragraphs, xp)
	}
	return hc
}
