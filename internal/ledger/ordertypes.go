package ledger

import (
	"sort"
	"strings"
)

// DefaultOrderType is used when no order type is configured.
const DefaultOrderType = "Tekući promet"

// fallbackOrderTypeID is the id of an order type name the importer does not know.
const fallbackOrderTypeID = 24

// orderTypes maps order type names to the importer's type ids. Some names
// share an id.
var orderTypes = map[string]int{
	"Tekući promet":                       0,
	"Otvaranje p. knjiga":                 1,
	"Zatvaranje p. knjiga":                2,
	"Izvod":                               20,
	"Ulazni racuni":                       21,
	"Uvoz":                                22,
	"Maloprodaja":                         23,
	"Izlazni racuni":                      24,
	"Zarade":                              24,
	"Nivelacije":                          26,
	"Kursne razlike":                      27,
	"Pdv nalog":                           28,
	"Amortizacija":                        29,
	"Vremenska razgranicenja (AVR & PVR)": 30,
	"Putni nalog":                         31,
	"Izvoz":                               37,
	"Asignacije, Kompenzacije, Cesije":    38,
}

// OrderTypeID returns the type id of an order type name. Matching ignores
// surrounding whitespace and case. Unknown names map to 24.
func OrderTypeID(name string) int {
	name = strings.TrimSpace(name)
	if id, ok := orderTypes[name]; ok {
		return id
	}
	for known, id := range orderTypes {
		if strings.EqualFold(known, name) {
			return id
		}
	}
	return fallbackOrderTypeID
}

// OrderType is a named order type.
type OrderType struct {
	Name string
	ID   int
}

// OrderTypes lists the known order types sorted by id, then name.
func OrderTypes() []OrderType {
	out := make([]OrderType, 0, len(orderTypes))
	for name, id := range orderTypes {
		out = append(out, OrderType{Name: name, ID: id})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
