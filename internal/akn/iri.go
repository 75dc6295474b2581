package akn

import (
	"fmt"
	"strings"

	"github.com/dgallion1/akngest/internal/doctree"
)

const language = "eng"

// WorkIRI returns the work-level IRI of a document, e.g.
// "/akn/un/statement/deliberation/itu-pp/2018-11-15/res-2".
func WorkIRI(conf doctree.Conference, d *doctree.Document) string {
	return fmt.Sprintf("/akn/un/statement/deliberation/%s/%s/%s", conf.Actor, conf.Date, NumberValue(d))
}

// NumberValue is the FRBRnumber value, e.g. "res-2".
func NumberValue(d *doctree.Document) string {
	return fmt.Sprintf("%s-%d", d.Kind.Abbrev(), d.Number)
}

// CollectionIRI returns the work-level IRI of the Final Acts publication, e.g.
// "/akn/un/officialGazette/publication/itu-pp/2018-11-15/pp-18-final-acts".
func CollectionIRI(conf doctree.Conference) string {
	return fmt.Sprintf("/akn/un/officialGazette/publication/%s/%s/%s", conf.Actor, conf.Date, collectionNumber(conf))
}

// collectionNumber derives "pp-18-final-acts" from actor "itu-pp" and 2018.
func collectionNumber(conf doctree.Conference) string {
	return fmt.Sprintf("%s-%02d-final-acts", shortActor(conf), conf.Year%100)
}

func shortActor(conf doctree.Conference) string {
	short := strings.TrimPrefix(conf.Actor, "itu-")
	if short == "" {
		short = "itu"
	}
	return short
}

func expressionIRI(work string, conf doctree.Conference) string {
	return fmt.Sprintf("%s/%s@%s", work, language, conf.Date)
}

func manifestationIRI(work string, conf doctree.Conference) string {
	return expressionIRI(work, conf) + "/.xml"
}

func mainOf(iri string) string {
	return iri + "/!main"
}

// DocumentFilename is the per-document output name, e.g. "res_2.xml".
func DocumentFilename(d *doctree.Document) string {
	return d.ID + ".xml"
}

// CollectionFilename is the name of the collection output file.
const CollectionFilename = "final_acts_akn.xml"
