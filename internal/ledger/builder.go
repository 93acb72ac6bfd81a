package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/apperrors"
	"github.com/ginjaninja78/ledger-import/internal/directory"
	"github.com/ginjaninja78/ledger-import/internal/normalize"
	"github.com/ginjaninja78/ledger-import/internal/types"
)

// MetadataSource supplies account metadata for descriptor blocks.
type MetadataSource interface {
	Metadata(id int64) directory.AccountMeta
}

// HeaderOptions are the user supplied header fields.
type HeaderOptions struct {
	CompanyCode string
	OrderType   string
	Note        string
}

// Builder assembles ledger documents.
type Builder struct {
	opts HeaderOptions
	now  func() time.Time
}

// NewBuilder creates a builder. now provides the document date when no row
// carries a parseable change date; nil means time.Now.
func NewBuilder(opts HeaderOptions, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{opts: opts, now: now}
}

// Build assembles the document from the emitted items.
//
// PARAMETERS:
//   - items: line items in emission order
//   - used: ids of the accounts referenced by items
//   - headerDate: first parsed change date of the run, or nil
//   - meta: metadata lookup for the account blocks
//
// RETURNS:
//   - apperrors.ErrDocumentEmpty when there are no items
func (b *Builder) Build(items []types.LineItem, used []int64, headerDate *time.Time, meta MetadataSource) (*Document, error) {
	if len(items) == 0 {
		return nil, apperrors.ErrDocumentEmpty
	}

	doc := &Document{
		Header: b.header(headerDate),
		Items:  make([]Item, len(items)),
	}

	for i, item := range items {
		doc.Items[i] = Item{
			LineItem: item,
			ItemID:   BaseOrderID + int64(item.Sequence),
			OrderID:  BaseOrderID,
		}
	}

	for _, id := range sortedUnique(used) {
		m := meta.Metadata(id)
		doc.Accounts = append(doc.Accounts, AccountBlock{AccountID: id, Code: m.Code, Name: m.Name})
	}

	return doc, nil
}

func (b *Builder) header(headerDate *time.Time) Header {
	date := normalize.Midnight(b.now())
	if headerDate != nil {
		date = *headerDate
	}

	typeName := strings.TrimSpace(b.opts.OrderType)
	if typeName == "" {
		typeName = DefaultOrderType
	}

	note := strings.TrimSpace(b.opts.Note)
	if note == "" {
		note = DefaultNote
	}

	return Header{
		CompanyCode: strings.TrimSpace(b.opts.CompanyCode),
		OrderID:     BaseOrderID,
		Status:      OrderStatus,
		TypeID:      OrderTypeID(typeName),
		TypeName:    typeName,
		Date:        date,
		Note:        note,
	}
}

func sortedUnique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
