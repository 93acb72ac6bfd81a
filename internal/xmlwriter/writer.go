// =============================================================================
// Ledger Import - XML Writer Module
// =============================================================================
//
// This module serializes a ledger document into the XML layout the ledger
// importer reads. Element names are fixed by the importer; "_x0020_" stands
// for a space in the original column name.
//
// XML STRUCTURE:
//
//   <Dokumenti>                                   <!-- Root element -->
//     <Nalog_za_knjiženje>                        <!-- Exactly one header -->
//       <Šifra_x0020_preduzeca>01</Šifra_x0020_preduzeca>
//       <fk_nk_nalog_za_knjizenje_id>900000</fk_nk_nalog_za_knjizenje_id>
//       ...
//     </Nalog_za_knjiženje>
//     <Stavka_naloga_za_knjizenje>                <!-- One per line item -->
//       <fk_nk_stavka_naloga_za_knjizenje_id>900001</...>
//       <Duguje>1000.0000</Duguje>                <!-- Only when present -->
//       ...
//     </Stavka_naloga_za_knjizenje>
//     <Konto>                                     <!-- One per account, ascending -->
//       <fk_kp_konto_id>7</fk_kp_konto_id>
//       ...
//     </Konto>
//   </Dokumenti>
//
// OPTIONAL FIELDS:
//   Change date, document reference, description and the amount fields are
//   left out entirely when absent, never written empty.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/ledger-import/internal/ledger"
	"github.com/ginjaninja78/ledger-import/internal/normalize"
)

// Element names.
const (
	rootElement    = "Dokumenti"
	headerElement  = "Nalog_za_knjiženje"
	itemElement    = "Stavka_naloga_za_knjizenje"
	accountElement = "Konto"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation. Empty writes one element
	// per line without indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// XMLVersion is the XML version for the declaration.
	// Default: "1.0"
	XMLVersion string

	// Encoding is the encoding for the XML declaration. The document is
	// always written as UTF-8.
	// Default: "UTF-8"
	Encoding string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		XMLVersion:            "1.0",
		Encoding:              "UTF-8",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate renders a ledger document with the default options.
func Generate(doc *ledger.Document) ([]byte, error) {
	return GenerateWithOptions(doc, DefaultGenerateOptions())
}

// GenerateWithOptions renders a ledger document with custom options.
func GenerateWithOptions(doc *ledger.Document, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Write(&buffer, doc, options); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// Write renders a ledger document to w.
//
// GENERATION PROCESS:
//   1. Write the declaration if requested
//   2. Build the element tree: header, items in order, account blocks
//   3. Write the tree with indentation
func Write(w io.Writer, doc *ledger.Document, options GenerateOptions) error {
	if doc == nil {
		return fmt.Errorf("no document to write")
	}

	if options.XMLVersion == "" {
		options.XMLVersion = "1.0"
	}
	if options.Encoding == "" {
		options.Encoding = "UTF-8"
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(fmt.Sprintf("<?xml version=\"%s\" encoding=\"%s\"?>\n",
			options.XMLVersion, options.Encoding))
	}

	writeElement(&buffer, buildDocument(doc), options.Indent, 0)

	if _, err := w.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}

	return nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName  xml.Name
	Value    string       `xml:",chardata"`
	Children []XMLElement `xml:",any"`
}

// buildDocument constructs the element tree of a document.
func buildDocument(doc *ledger.Document) XMLElement {
	root := XMLElement{XMLName: xml.Name{Local: rootElement}}

	root.Children = append(root.Children, buildHeaderElement(doc.Header))

	for _, item := range doc.Items {
		root.Children = append(root.Children, buildItemElement(item))
	}

	for _, account := range doc.Accounts {
		root.Children = append(root.Children, buildAccountElement(account))
	}

	return root
}

// buildHeaderElement constructs the order header.
//
// STRUCTURE:
//   <Nalog_za_knjiženje>
//     <Šifra_x0020_preduzeca>01</Šifra_x0020_preduzeca>
//     <fk_nk_nalog_za_knjizenje_id>900000</fk_nk_nalog_za_knjizenje_id>
//     <Status>2</Status>
//     <tip_x0020_id>0</tip_x0020_id>
//     <Tip>Tekući promet</Tip>
//     <Broj>&lt;900000&gt;</Broj>
//     <Org_x0020_broj>&lt;900000&gt;</Org_x0020_broj>
//     <Datum>2024-03-15T00:00:00+02:00</Datum>
//     <Napomena>...</Napomena>
//     <Spoljni_x0020_broj>...</Spoljni_x0020_broj>
//   </Nalog_za_knjiženje>
func buildHeaderElement(h ledger.Header) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: headerElement},
		Children: []XMLElement{
			createSimpleElement("Šifra_x0020_preduzeca", h.CompanyCode),
			createSimpleElement("fk_nk_nalog_za_knjizenje_id", strconv.FormatInt(h.OrderID, 10)),
			createSimpleElement("Status", strconv.Itoa(h.Status)),
			createSimpleElement("tip_x0020_id", strconv.Itoa(h.TypeID)),
			createSimpleElement("Tip", h.TypeName),
			createSimpleElement("Broj", h.Number()),
			createSimpleElement("Org_x0020_broj", h.Number()),
			createSimpleElement("Datum", normalize.FormatDate(h.Date)),
			createSimpleElement("Napomena", h.Note),
			createSimpleElement("Spoljni_x0020_broj", h.Note),
		},
	}
}

// buildItemElement constructs one posting line.
func buildItemElement(item ledger.Item) XMLElement {
	element := XMLElement{
		XMLName: xml.Name{Local: itemElement},
		Children: []XMLElement{
			createSimpleElement("fk_nk_stavka_naloga_za_knjizenje_id", strconv.FormatInt(item.ItemID, 10)),
			createSimpleElement("fk_nk_nalog_za_knjizenje_id", strconv.FormatInt(item.OrderID, 10)),
			createSimpleElement("fk_kp_konto_id", strconv.FormatInt(item.AccountID, 10)),
			createSimpleElement("Redni_x0020_broj", strconv.Itoa(item.Sequence)),
		},
	}

	if item.ChangeDate != nil {
		element.Children = append(element.Children,
			createSimpleElement("Datum_x0020_promene", normalize.FormatDate(*item.ChangeDate)))
	}
	if item.DocumentRef != "" {
		element.Children = append(element.Children,
			createSimpleElement("Broj_x0020_dokumenta", item.DocumentRef))
	}
	if item.Debit.Valid {
		element.Children = append(element.Children,
			createSimpleElement("Duguje", normalize.FormatAmount(item.Debit.Decimal)))
	}
	if item.Credit.Valid {
		element.Children = append(element.Children,
			createSimpleElement("Potrazuje", normalize.FormatAmount(item.Credit.Decimal)))
	}
	if item.Description != "" {
		element.Children = append(element.Children,
			createSimpleElement("Opis", item.Description))
	}

	element.Children = append(element.Children,
		createSimpleElement("Subanalitika", ledger.Subanalytics),
		createSimpleElement("Valuta_x0020_ID", strconv.Itoa(ledger.CurrencyID)),
		createSimpleElement("Kurs", strconv.Itoa(ledger.ExchangeRate)),
	)

	return element
}

// buildAccountElement constructs an account descriptor block.
func buildAccountElement(acc ledger.AccountBlock) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: accountElement},
		Children: []XMLElement{
			createSimpleElement("fk_kp_konto_id", strconv.FormatInt(acc.AccountID, 10)),
			createSimpleElement("Broj", acc.Code),
			createSimpleElement("Naziv", acc.Name),
			createSimpleElement("Dozvoljeno_x0020_knjiženje", strconv.Itoa(ledger.PostingAllowed)),
			createSimpleElement("Devizni", strconv.Itoa(ledger.ForeignCurrency)),
		},
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString(" />\n")
		return
	}

	buffer.WriteString(">")

	if len(element.Children) == 0 {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes character data. Invalid XML characters are replaced
// with U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	// EscapeText only fails when the writer does.
	_ = xml.EscapeText(&buffer, []byte(s))
	return buffer.String()
}
