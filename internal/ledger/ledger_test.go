package ledger

import (
	"testing"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/apperrors"
	"github.com/ginjaninja78/ledger-import/internal/directory"
	"github.com/ginjaninja78/ledger-import/internal/normalize"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metaMap map[int64]directory.AccountMeta

func (m metaMap) Metadata(id int64) directory.AccountMeta { return m[id] }

func fixedClock() time.Time {
	return time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
}

func item(seq int, account int64, debit string) types.LineItem {
	return types.LineItem{
		Sequence:  seq,
		AccountID: account,
		Debit:     decimal.NewNullDecimal(decimal.RequireFromString(debit)),
	}
}

func TestOrderTypeID(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Tekući promet", 0},
		{"Izvod", 20},
		{"Izlazni racuni", 24},
		{"Zarade", 24},
		{"Vremenska razgranicenja (AVR & PVR)", 30},
		{"Asignacije, Kompenzacije, Cesije", 38},
		{"  pdv NALOG ", 28},
		{"Nepoznat", 24},
		{"", 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderTypeID(tt.name))
		})
	}
}

func TestOrderTypes_Sorted(t *testing.T) {
	list := OrderTypes()
	require.Len(t, list, 17)
	assert.Equal(t, OrderType{Name: "Tekući promet", ID: 0}, list[0])
	assert.Equal(t, OrderType{Name: "Asignacije, Kompenzacije, Cesije", ID: 38}, list[len(list)-1])
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, list[i-1].ID, list[i].ID)
	}
}

func TestBuild_Empty(t *testing.T) {
	b := NewBuilder(HeaderOptions{CompanyCode: "01"}, fixedClock)

	doc, err := b.Build(nil, nil, nil, metaMap{})

	assert.ErrorIs(t, err, apperrors.ErrDocumentEmpty)
	assert.Nil(t, doc)
}

func TestBuild_Header(t *testing.T) {
	b := NewBuilder(HeaderOptions{CompanyCode: " 01 ", OrderType: "Izvod", Note: "  "}, fixedClock)
	date, ok := normalize.ParseDate("15.03.2024")
	require.True(t, ok)

	doc, err := b.Build([]types.LineItem{item(1, 7, "10")}, []int64{7}, &date, metaMap{})
	require.NoError(t, err)

	h := doc.Header
	assert.Equal(t, "01", h.CompanyCode)
	assert.Equal(t, BaseOrderID, h.OrderID)
	assert.Equal(t, OrderStatus, h.Status)
	assert.Equal(t, 20, h.TypeID)
	assert.Equal(t, "Izvod", h.TypeName)
	assert.Equal(t, DefaultNote, h.Note)
	assert.Equal(t, "<900000>", h.Number())
	assert.Equal(t, "2024-03-15T00:00:00+02:00", normalize.FormatDate(h.Date))
}

func TestBuild_HeaderDateFallsBackToClock(t *testing.T) {
	b := NewBuilder(HeaderOptions{Note: "Import januar"}, fixedClock)

	doc, err := b.Build([]types.LineItem{item(1, 7, "10")}, []int64{7}, nil, metaMap{})
	require.NoError(t, err)

	assert.Equal(t, "2025-01-02T00:00:00+02:00", normalize.FormatDate(doc.Header.Date))
	assert.Equal(t, "Import januar", doc.Header.Note)
	assert.Equal(t, DefaultOrderType, doc.Header.TypeName)
	assert.Equal(t, 0, doc.Header.TypeID)
}

func TestBuild_ItemsAndAccounts(t *testing.T) {
	meta := metaMap{
		7:  {Code: "1001", Name: "Blagajna"},
		12: {Code: "2040", Name: "Kupci"},
	}
	items := []types.LineItem{item(1, 12, "5"), item(2, 7, "10"), item(3, 12, "1")}

	doc, err := NewBuilder(HeaderOptions{}, fixedClock).Build(items, []int64{12, 7, 12, 99}, nil, meta)
	require.NoError(t, err)

	require.Len(t, doc.Items, 3)
	for i, it := range doc.Items {
		assert.Equal(t, i+1, it.Sequence)
		assert.Equal(t, BaseOrderID+int64(i+1), it.ItemID)
		assert.Equal(t, BaseOrderID, it.OrderID)
	}

	assert.Equal(t, []int64{7, 12, 99}, doc.AccountIDs())
	assert.Equal(t, AccountBlock{AccountID: 7, Code: "1001", Name: "Blagajna"}, doc.Accounts[0])
	assert.Equal(t, AccountBlock{AccountID: 99}, doc.Accounts[2], "unknown ids get empty metadata")
}
