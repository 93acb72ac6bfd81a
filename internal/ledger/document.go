// =============================================================================
// Ledger Import - Ledger Document
// =============================================================================
//
// The ledger document is one posting order (header), its line items in
// emission order and one account descriptor block per distinct account used
// by the items, in ascending account id order.
//
// ID SCHEME:
//   order id = BaseOrderID
//   item id  = BaseOrderID + sequence
//
// =============================================================================

package ledger

import (
	"strconv"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/types"
)

const (
	// BaseOrderID is the fixed id of the generated order.
	BaseOrderID int64 = 900000

	// OrderStatus is the status the importer expects on a new order.
	OrderStatus = 2

	// DefaultNote replaces a blank order note.
	DefaultNote = "Generisano iz XLSX"

	// CurrencyID, ExchangeRate and Subanalytics are constant on every item.
	CurrencyID   = 1
	ExchangeRate = 0
	Subanalytics = ""

	// PostingAllowed and ForeignCurrency are constant on every account block.
	PostingAllowed  = 1
	ForeignCurrency = 0
)

// Header holds the order-level fields.
type Header struct {
	CompanyCode string
	OrderID     int64
	Status      int
	TypeID      int
	TypeName    string
	Date        time.Time
	Note        string
}

// Number is the order number, e.g. "<900000>". Org_x0020_broj carries the
// same value.
func (h Header) Number() string {
	return "<" + strconv.FormatInt(h.OrderID, 10) + ">"
}

// Item is a line item placed in the order.
type Item struct {
	types.LineItem

	// ItemID is BaseOrderID + Sequence.
	ItemID int64

	// OrderID references the header.
	OrderID int64
}

// AccountBlock describes one account referenced by the items.
type AccountBlock struct {
	AccountID int64
	Code      string
	Name      string
}

// Document is a complete ledger import document.
type Document struct {
	Header   Header
	Items    []Item
	Accounts []AccountBlock
}

// AccountIDs returns the ids of the account blocks in document order.
func (d *Document) AccountIDs() []int64 {
	ids := make([]int64, len(d.Accounts))
	for i, acc := range d.Accounts {
		ids[i] = acc.AccountID
	}
	return ids
}
