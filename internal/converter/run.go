package converter

import (
	"sort"
	"time"

	"github.com/ginjaninja78/ledger-import/internal/columns"
	"github.com/ginjaninja78/ledger-import/internal/directory"
	"github.com/ginjaninja78/ledger-import/internal/normalize"
	"github.com/ginjaninja78/ledger-import/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Run holds the state of one generation run. Nothing in it is shared
// between runs; a Run must not be used concurrently.
type Run struct {
	// ID identifies the run in logs.
	ID string

	dir     *directory.Directory
	mapping columns.Mapping
	logger  zerolog.Logger

	// seq is the last emitted sequence number.
	seq int

	used       map[int64]struct{}
	headerDate *time.Time
	items      []types.LineItem
	audit      []types.AuditEntry
	skips      map[types.SkipReason]int
}

// NewRun creates a run over a resolved column mapping and directory. An
// empty id is replaced by a random UUID.
func NewRun(id string, dir *directory.Directory, mapping columns.Mapping, logger zerolog.Logger) *Run {
	if id == "" {
		id = uuid.New().String()
	}
	return &Run{
		ID:      id,
		dir:     dir,
		mapping: mapping,
		logger:  logger,
		used:    make(map[int64]struct{}),
		skips:   make(map[types.SkipReason]int),
	}
}

// Add processes one row in source order and records its audit entry.
func (r *Run) Add(row types.RawRow) Outcome {
	r.observeHeaderDate(row)

	outcome := r.transform(row)
	r.audit = append(r.audit, outcome.Audit)

	if outcome.Item == nil {
		r.skips[outcome.Audit.Reason]++
		r.logger.Debug().
			Int("row", outcome.Audit.RowNumber).
			Str("reason", string(outcome.Audit.Reason)).
			Str("konto_raw", outcome.Audit.RawAccountCode).
			Str("konto_norm", outcome.Audit.AccountCode).
			Msg("row skipped")
		return outcome
	}

	r.items = append(r.items, *outcome.Item)
	r.used[outcome.Item.AccountID] = struct{}{}
	return outcome
}

// observeHeaderDate records the first parseable change date of the run,
// whatever happens to the row afterwards.
func (r *Run) observeHeaderDate(row types.RawRow) {
	if r.headerDate != nil {
		return
	}
	if t, ok := normalize.ParseDate(row.Get(r.mapping.Column(columns.FieldChangeDate))); ok {
		r.headerDate = &t
	}
}

// nextSequence advances the emission counter.
func (r *Run) nextSequence() int {
	r.seq++
	return r.seq
}

// Items returns the emitted line items in emission order.
func (r *Run) Items() []types.LineItem {
	return r.items
}

// Audit returns one entry per processed row in source order.
func (r *Run) Audit() []types.AuditEntry {
	return r.audit
}

// UsedAccounts returns the ids referenced by emitted items, ascending.
func (r *Run) UsedAccounts() []int64 {
	ids := make([]int64, 0, len(r.used))
	for id := range r.used {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HeaderDate returns the first parsed change date, or nil.
func (r *Run) HeaderDate() *time.Time {
	return r.headerDate
}

// SkipCounts returns the number of skipped rows per reason.
func (r *Run) SkipCounts() map[types.SkipReason]int {
	out := make(map[types.SkipReason]int, len(r.skips))
	for reason, n := range r.skips {
		out[reason] = n
	}
	return out
}
