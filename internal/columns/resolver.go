// =============================================================================
// Ledger Import - Column Resolver
// =============================================================================
//
// Maps the semantic fields a journal row must provide to the concrete source
// column headers that satisfy them. Matching is done on normalized headers:
//   1. exact match of the field name
//   2. each synonym of the field, in fixed priority order
//
// Partial resolution is not supported: if any field is missing, the caller
// aborts the run before a single row is processed.
//
// =============================================================================

package columns

import "github.com/ginjaninja78/ledger-import/internal/normalize"

// Field is a semantic journal field, named by its canonical header.
type Field string

const (
	FieldAccount     Field = "konto"
	FieldDebit       Field = "duguje"
	FieldCredit      Field = "potražuje"
	FieldPartner     Field = "poslovni partner"
	FieldDocument    Field = "dokument"
	FieldChangeDate  Field = "datum promene"
	FieldDescription Field = "opis"
)

// Required lists the fields every journal must provide, in reporting order.
var Required = []Field{
	FieldAccount,
	FieldDebit,
	FieldCredit,
	FieldPartner,
	FieldDocument,
	FieldChangeDate,
	FieldDescription,
}

// builtinSynonyms are alternate spellings seen in exported journals.
var builtinSynonyms = map[Field][]string{
	FieldCredit:     {"potrazuje", "potrazue", "potrazuj"},
	FieldDebit:      {"dug", "duznik"},
	FieldChangeDate: {"datum", "datum_promene", "datum promjena", "datum prom", "datumpromene", "datprom"},
	FieldPartner:    {"partner", "poslovni_partner", "poslovnipartner"},
}

// Mapping maps each field to the source column header that satisfies it.
type Mapping map[Field]string

// Column returns the source header bound to a field.
func (m Mapping) Column(f Field) string {
	return m[f]
}

// Resolver resolves fields against available headers.
type Resolver struct {
	synonyms map[Field][]string
}

// NewResolver creates a resolver with the built-in synonym table. Extra
// synonyms (typically from configuration) are tried after the built-in ones.
func NewResolver(extra map[string][]string) *Resolver {
	synonyms := make(map[Field][]string, len(builtinSynonyms))
	for field, alts := range builtinSynonyms {
		synonyms[field] = append([]string(nil), alts...)
	}
	for name, alts := range extra {
		field := Field(normalize.Header(name))
		synonyms[field] = append(synonyms[field], alts...)
	}

	return &Resolver{synonyms: synonyms}
}

// Resolve binds each required field to an available column. Fields that
// cannot be bound are returned in missing, in the order they were required.
// On duplicate normalized headers the last column wins.
func (r *Resolver) Resolve(required []Field, available []string) (Mapping, []Field) {
	normalized := make(map[string]string, len(available))
	for _, col := range available {
		normalized[normalize.Header(col)] = col
	}

	mapping := make(Mapping, len(required))
	var missing []Field

	for _, field := range required {
		if col, ok := normalized[normalize.Header(string(field))]; ok {
			mapping[field] = col
			continue
		}

		found := false
		for _, alt := range r.synonyms[field] {
			if col, ok := normalized[normalize.Header(alt)]; ok {
				mapping[field] = col
				found = true
				break
			}
		}

		if !found {
			missing = append(missing, field)
		}
	}

	return mapping, missing
}

// Resolve is a convenience wrapper using the built-in synonym table.
func Resolve(required []Field, available []string) (Mapping, []Field) {
	return NewResolver(nil).Resolve(required, available)
}

// Missing reports the required fields absent from the headers, honouring
// the extra synonyms. It drives the early warning when a journal is inspected.
func Missing(available []string, extra map[string][]string) []Field {
	_, missing := NewResolver(extra).Resolve(Required, available)
	return missing
}
