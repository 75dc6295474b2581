package akn

import "encoding/xml"

// Namespace is the Akoma Ntoso 3.0 namespace.
const Namespace = "http://docs.oasis-open.org/legaldocml/ns/akn/3.0"

// XML structures shared by the encoder and the decoder.

type xmlAkomaNtoso struct {
	XMLName    xml.Name       `xml:"akomaNtoso"`
	Xmlns      string         `xml:"xmlns,attr,omitempty"`
	Collection *xmlCollection `xml:"documentCollection,omitempty"`
	Statement  *xmlStatement  `xml:"statement,omitempty"`
}

type xmlCollection struct {
	Name       string            `xml:"name,attr"`
	Lang       string            `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	Meta       xmlMeta           `xml:"meta"`
	Preface    xmlPreface        `xml:"preface"`
	Body       xmlCollectionBody `xml:"collectionBody"`
	Components xmlComponents     `xml:"components"`
}

type xmlCollectionBody struct {
	Components []xmlComponentRefHolder `xml:"component"`
}

type xmlComponentRefHolder struct {
	EId string          `xml:"eId,attr"`
	Ref xmlComponentRef `xml:"componentRef"`
}

type xmlComponentRef struct {
	Src    string `xml:"src,attr"`
	ShowAs string `xml:"showAs,attr"`
}

type xmlComponents struct {
	Components []xmlComponent `xml:"component"`
}

type xmlComponent struct {
	EId       string       `xml:"eId,attr"`
	Statement xmlStatement `xml:"statement"`
}

type xmlStatement struct {
	Name        string          `xml:"name,attr"`
	Lang        string          `xml:"http://www.w3.org/XML/1998/namespace lang,attr,omitempty"`
	Meta        xmlMeta         `xml:"meta"`
	Preface     xmlPreface      `xml:"preface"`
	Preamble    *xmlPreamble    `xml:"preamble,omitempty"`
	MainBody    xmlMainBody     `xml:"mainBody"`
	Attachments *xmlAttachments `xml:"attachments,omitempty"`
}

type xmlMeta struct {
	Identification xmlIdentification `xml:"identification"`
	References     *xmlReferences    `xml:"references,omitempty"`
}

type xmlIdentification struct {
	Source        string   `xml:"source,attr"`
	Work          *xmlFRBR `xml:"FRBRWork,omitempty"`
	Expression    *xmlFRBR `xml:"FRBRExpression,omitempty"`
	Manifestation *xmlFRBR `xml:"FRBRManifestation,omitempty"`
}

// xmlFRBR covers the three FRBR levels; unused children are omitted.
type xmlFRBR struct {
	This     xmlValue    `xml:"FRBRthis"`
	URI      xmlValue    `xml:"FRBRuri"`
	Date     xmlDate     `xml:"FRBRdate"`
	Author   xmlHref     `xml:"FRBRauthor"`
	Country  *xmlValue   `xml:"FRBRcountry,omitempty"`
	Subtype  *xmlValue   `xml:"FRBRsubtype,omitempty"`
	Number   *xmlValue   `xml:"FRBRnumber,omitempty"`
	Language *xmlLangRef `xml:"FRBRlanguage,omitempty"`
}

type xmlValue struct {
	Value  string `xml:"value,attr"`
	ShowAs string `xml:"showAs,attr,omitempty"`
}

type xmlDate struct {
	Date string `xml:"date,attr"`
	Name string `xml:"name,attr"`
}

type xmlHref struct {
	Href string `xml:"href,attr"`
}

type xmlLangRef struct {
	Language string `xml:"language,attr"`
}

type xmlReferences struct {
	Source        string               `xml:"source,attr"`
	Organizations []xmlTLCOrganization `xml:"TLCOrganization"`
}

type xmlTLCOrganization struct {
	EId    string `xml:"eId,attr"`
	Href   string `xml:"href,attr"`
	ShowAs string `xml:"showAs,attr"`
}

type xmlPreface struct {
	LongTitle xmlLongTitle  `xml:"longTitle"`
	Container *xmlContainer `xml:"container,omitempty"`
}

type xmlLongTitle struct {
	EId string    `xml:"eId,attr,omitempty"`
	P   xmlTitleP `xml:"p"`
}

type xmlTitleP struct {
	DocType   string `xml:"docType"`
	DocNumber string `xml:"docNumber,omitempty"`
	DocTitle  string `xml:"docTitle,omitempty"`
}

type xmlContainer struct {
	Name string `xml:"name,attr"`
	EId  string `xml:"eId,attr"`
	P    string `xml:"p"`
}

type xmlPreamble struct {
	EId      string        `xml:"eId,attr"`
	Formula  *xmlFormula   `xml:"formula,omitempty"`
	Recitals []xmlRecitals `xml:"recitals"`
}

type xmlFormula struct {
	Name string `xml:"name,attr"`
	EId  string `xml:"eId,attr"`
	P    string `xml:"p"`
}

type xmlRecitals struct {
	EId      string       `xml:"eId,attr"`
	Intro    xmlKeywordP  `xml:"intro"`
	Recitals []xmlRecital `xml:"recital"`
}

type xmlKeywordP struct {
	P xmlItalic `xml:"p"`
}

type xmlItalic struct {
	I string `xml:"i"`
}

type xmlRecital struct {
	EId string `xml:"eId,attr"`
	Num string `xml:"num,omitempty"`
	P   string `xml:"p"`
}

type xmlMainBody struct {
	EId        string          `xml:"eId,attr,omitempty"`
	Containers []xmlHContainer `xml:"hcontainer"`
	Ps         []string        `xml:"p"`
}

type xmlHContainer struct {
	Name       string         `xml:"name,attr"`
	EId        string         `xml:"eId,attr"`
	Heading    *xmlItalic     `xml:"heading,omitempty"`
	Paragraphs []xmlParagraph `xml:"paragraph"`
}

type xmlParagraph struct {
	EId     string    `xml:"eId,attr"`
	Num     string    `xml:"num,omitempty"`
	Intro   *xmlBlock `xml:"intro,omitempty"`
	Content *xmlBlock `xml:"content,omitempty"`
	List    *xmlList  `xml:"list,omitempty"`
}

type xmlBlock struct {
	P string `xml:"p"`
}

type xmlList struct {
	EId    string     `xml:"eId,attr"`
	Points []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	EId     string   `xml:"eId,attr"`
	Num     string   `xml:"num"`
	Content xmlBlock `xml:"content"`
}

type xmlAttachments struct {
	Attachments []xmlAttachment `xml:"attachment"`
}

type xmlAttachment struct {
	EId     string   `xml:"eId,attr"`
	Heading string   `xml:"heading"`
	Doc     xmlAnnex `xml:"doc"`
}

type xmlAnnex struct {
	Name     string      `xml:"name,attr"`
	Meta     xmlMeta     `xml:"meta"`
	MainBody xmlMainBody `xml:"mainBody"`
}
