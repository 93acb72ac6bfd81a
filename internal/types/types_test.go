package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable(t *testing.T) {
	table := NewTable("journal.csv", [][]string{
		{" Konto ", "Duguje", "", "Opis"},
		{"100-1", " 1.000,00 ", "x", "Kasa"},
		{"", " ", ""},
		{"999"},
	})

	assert.Equal(t, "journal.csv", table.Source)
	assert.Equal(t, []string{"Konto", "Duguje", "Column_3", "Opis"}, table.Headers)
	require.Len(t, table.Rows, 2)

	first := table.Rows[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, 2, first.RowNumber())
	assert.Equal(t, " 1.000,00 ", first.Get("Duguje"), "cells are not trimmed")

	second := table.Rows[1]
	assert.Equal(t, 4, second.RowNumber(), "blank rows are counted")
	assert.Equal(t, "999", second.Get("Konto"))
	assert.Equal(t, "", second.Get("Opis"))
	assert.Equal(t, "", second.Get("missing"))
}

func TestNewTable_Empty(t *testing.T) {
	table := NewTable("empty.csv", nil)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestCleanHeaders_Duplicates(t *testing.T) {
	assert.Equal(t,
		[]string{"Opis", "Opis.1", "Konto", "Opis.2"},
		cleanHeaders([]string{"Opis", "Opis", "Konto", " Opis "}))
}
