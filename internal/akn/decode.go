package akn

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
)

var (
	revisionSuffix = regexp.MustCompile(`^\s*(\d+)\s*\((.*)\)\s*$`)
	conferenceText = regexp.MustCompile(`^(?:of the|ITU)\s+(.+?)\s+\(([^,]+),\s*(\d{4})\)\s*$`)
)

// Decode reads a documentCollection or a standalone statement back into a
// Collection. Page ranges are not part of the markup and stay zero.
func Decode(r io.Reader) (*doctree.Collection, error) {
	var root xmlAkomaNtoso
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode akn: %w", err)
	}

	switch {
	case root.Collection != nil:
		return decodeCollection(root.Collection)
	case root.Statement != nil:
		d, err := decodeStatement(root.Statement, "")
		if err != nil {
			return nil, err
		}
		return &doctree.Collection{
			Conference: conferenceFrom(root.Statement.Meta, ""),
			Documents:  []*doctree.Document{d},
		}, nil
	}
	return nil, fmt.Errorf("decode akn: neither documentCollection nor statement found")
}

func decodeCollection(c *xmlCollection) (*doctree.Collection, error) {
	parts := make(map[string]string, len(c.Body.Components))
	for _, ref := range c.Body.Components {
		label := ref.Ref.ShowAs
		if i := strings.Index(label, ": "); i >= 0 {
			parts[strings.TrimPrefix(ref.Ref.Src, "#")] = label[:i]
		}
	}

	out := &doctree.Collection{Conference: conferenceFrom(c.Meta, c.Preface.LongTitle.P.DocTitle)}
	for i := range c.Components.Components {
		cmp := &c.Components.Components[i]
		d, err := decodeStatement(&cmp.Statement, parts[cmp.EId])
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", cmp.EId, err)
		}
		out.Documents = append(out.Documents, d)
	}
	return out, nil
}

// conferenceFrom recovers conference metadata from the FRBR block and a
// "of the <name> (<location>, <year>)" title. Without a title the actor's
// TLCOrganization label is used.
func conferenceFrom(meta xmlMeta, title string) doctree.Conference {
	var conf doctree.Conference
	if w := meta.Identification.Work; w != nil {
		conf.Date = w.Date.Date
		conf.Actor = strings.TrimPrefix(w.Author.Href, "#")
	}
	if title == "" && meta.References != nil {
		for _, org := range meta.References.Organizations {
			if org.EId == conf.Actor {
				title = org.ShowAs
			}
		}
	}
	if m := conferenceText.FindStringSubmatch(title); m != nil {
		conf.Name, conf.Location = m[1], m[2]
		conf.Year, _ = strconv.Atoi(m[3])
	}
	return conf
}

func decodeStatement(st *xmlStatement, part string) (*doctree.Document, error) {
	kind, err := doctree.ParseDocKind(st.Name)
	if err != nil {
		return nil, fmt.Errorf("statement: %w", err)
	}
	d := &doctree.Document{Kind: kind, Part: part}

	docNumber := st.Preface.LongTitle.P.DocNumber
	if m := revisionSuffix.FindStringSubmatch(docNumber); m != nil {
		d.Number, _ = strconv.Atoi(m[1])
		d.Revision = m[2]
	} else if n, err := strconv.Atoi(strings.TrimSpace(docNumber)); err == nil {
		d.Number = n
	}
	if w := st.Meta.Identification.Work; d.Number == 0 && w != nil && w.Number != nil {
		v := w.Number.Value
		d.Number, _ = strconv.Atoi(v[strings.LastIndex(v, "-")+1:])
	}
	if d.Number == 0 {
		return nil, fmt.Errorf("statement %s: missing document number", st.Name)
	}
	d.ID = doctree.DocumentID(kind, d.Number)
	if st.Preface.Container != nil {
		d.Title = st.Preface.Container.P
	}

	if pre := st.Preamble; pre != nil {
		if pre.Formula != nil {
			d.Preamble.EnactingFormula = pre.Formula.P
		}
		for _, xr := range pre.Recitals {
			g := doctree.RecitalGroup{ID: xr.EId, Keyword: xr.Intro.P.I}
			for i, r := range xr.Recitals {
				g.Recitals = append(g.Recitals, doctree.Recital{
					ID:           r.EId,
					GroupKeyword: g.Keyword,
					Sequence:     i + 1,
					Label:        r.Num,
					Text:         r.P,
				})
			}
			d.Preamble.Groups = append(d.Preamble.Groups, g)
		}
	}

	for _, hc := range st.MainBody.Containers {
		sec := doctree.OperativeSection{ID: hc.EId}
		if hc.Heading != nil {
			sec.Keyword = hc.Heading.I
		}
		for _, xp := range hc.Paragraphs {
			sec.Paragraphs = append(sec.Paragraphs, decodeParagraph(xp))
		}
		d.Sections = append(d.Sections, sec)
	}

	if st.Attachments != nil {
		for _, att := range st.Attachments.Attachments {
			d.Annexes = append(d.Annexes, doctree.Annex{
				Title: att.Heading,
				Text:  strings.Join(att.Doc.MainBody.Ps, " "),
			})
		}
	}
	return d, nil
}

func decodeParagraph(xp xmlParagraph) doctree.Paragraph {
	p := doctree.Paragraph{ID: xp.EId}
	p.Number, _ = strconv.Atoi(strings.TrimSpace(xp.Num))
	switch {
	case xp.Content != nil:
		p.Text = xp.Content.P
	case xp.Intro != nil:
		p.Text = xp.Intro.P
	}
	if xp.List == nil {
		return p
	}
	for _, pt := range xp.List.Points {
		sp := doctree.SubParagraph{ID: pt.EId, Text: pt.Content.P}
		num := strings.TrimSpace(pt.Num)
		if i := strings.Index(num, "."); i >= 0 {
			sp.Style = doctree.StyleDecimal
			sp.NumberLabel = num[i+1:]
		} else {
			sp.Style = doctree.StyleLettered
			sp.NumberLabel = strings.Trim(num, "()")
		}
		p.SubParagraphs = append(p.SubParagraphs, sp)
	}
	return p
}
