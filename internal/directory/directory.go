// =============================================================================
// Ledger Import - Account Directory
// =============================================================================
//
// The account directory maps normalized account codes to internal ledger
// account ids, and ids to their metadata. It is built once per run, before
// any row is processed, from exactly one of two sources:
//
//   SourceExternal - a snapshot loaded from the Account Directory Provider
//   SourceEmbedded - the fallback table shipped with the tool
//
// PRECEDENCE:
//   The external snapshot is used exclusively when it loaded successfully
//   and is non-empty. Otherwise the fallback table is used, even when it is
//   empty (every lookup then fails). The two sources are never merged.
//
// =============================================================================

package directory

import (
	"fmt"

	"github.com/ginjaninja78/ledger-import/internal/normalize"
)

// AccountMeta is the metadata emitted in an account descriptor block.
type AccountMeta struct {
	// Code is the normalized account code.
	Code string

	// Name is the display name of the account.
	Name string
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a raw code->id / id->metadata table as loaded from a source.
type Snapshot struct {
	Codes map[string]int64
	Meta  map[int64]AccountMeta
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Codes: make(map[string]int64),
		Meta:  make(map[int64]AccountMeta),
	}
}

// Add normalizes the code and records the account. Accounts whose code
// normalizes to "" are ignored and Add returns false.
func (s *Snapshot) Add(rawCode string, id int64, name string) bool {
	code := normalize.AccountCode(rawCode)
	if code == "" {
		return false
	}

	s.Codes[code] = id
	s.Meta[id] = AccountMeta{Code: code, Name: name}
	return true
}

// Len returns the number of codes in the snapshot. A nil snapshot is empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Codes)
}

func (s *Snapshot) clone() *Snapshot {
	out := NewSnapshot()
	if s == nil {
		return out
	}
	for code, id := range s.Codes {
		out.Codes[code] = id
	}
	for id, meta := range s.Meta {
		out.Meta[id] = meta
	}
	return out
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Source identifies where a directory's entries came from.
type Source int

const (
	SourceEmbedded Source = iota
	SourceExternal
)

func (s Source) String() string {
	switch s {
	case SourceExternal:
		return "external"
	case SourceEmbedded:
		return "embedded"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Directory is the immutable, run-scoped account directory.
type Directory struct {
	source  Source
	entries *Snapshot
}

// Select builds the run's directory from the external snapshot when it is
// non-empty, and from the fallback table otherwise. Either argument may be
// nil. The chosen snapshot is copied so later changes to it are not seen.
func Select(external, fallback *Snapshot) *Directory {
	if external.Len() > 0 {
		return &Directory{source: SourceExternal, entries: external.clone()}
	}
	return &Directory{source: SourceEmbedded, entries: fallback.clone()}
}

// Source returns which table the directory was built from.
func (d *Directory) Source() Source {
	return d.source
}

// Len returns the number of resolvable codes.
func (d *Directory) Len() int {
	return d.entries.Len()
}

// Resolve looks up a normalized account code.
func (d *Directory) Resolve(code string) (int64, bool) {
	id, ok := d.entries.Codes[code]
	return id, ok
}

// Metadata returns the metadata of an account id, or empty metadata when the
// id is unknown.
func (d *Directory) Metadata(id int64) AccountMeta {
	return d.entries.Meta[id]
}
