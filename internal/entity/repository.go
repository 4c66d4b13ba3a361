// Package entity implements the generic CRUD engine over the ledger
// document. A Repository is parameterized by a table layout and a row codec;
// every entity kind reuses the same fetch/create/update/delete logic.
//
// A row's 1-based position within its sheet is the only addressing token the
// store offers for update and delete. Positions shift whenever rows are
// inserted or removed, so the repository re-resolves the position with a
// fresh lookup immediately before every mutation and never caches it.
package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgersheet/ledgersheet/internal/sheetdb"
)

// Record is the capability surface the repository needs from an entity:
// identity access and the ephemeral row position attached from query
// metadata. Domain structs gain it by embedding domain.Meta.
type Record interface {
	EntityID() string
	SetEntityID(id string)
	RowPos() int64
	SetRowPos(pos int64)
	Created() time.Time
	SetCreated(t time.Time)
}

// Codec maps an entity to and from the positional cell list of its row. The
// row position is never part of the encoded cells; the repository attaches it
// separately. Encode refreshes the updated-at stamp and fills the created-at
// stamp when absent. Decode is defensive: missing or null cells decode to
// zero values.
type Codec[T Record] interface {
	Encode(e T) []interface{}
	Decode(cells []interface{}) T
}

// Table names one entity table inside the ledger document. IDColumn is the
// sheet letter of the id column; column A always holds the row position
// formula and is stripped from query results before decoding.
type Table struct {
	Name     string
	IDColumn string
}

// rowFormula keeps column A of every data row reporting its own 1-based
// position, so query results carry addressing metadata even after rows shift.
const rowFormula = "=ROW()"

// Repository is the generic CRUD engine for one entity kind.
type Repository[T Record] struct {
	store         sheetdb.Store
	spreadsheetID string
	table         Table
	codec         Codec[T]
	log           zerolog.Logger
}

// NewRepository builds a repository bound to one table of one ledger
// document.
func NewRepository[T Record](store sheetdb.Store, spreadsheetID string, table Table, codec Codec[T], log zerolog.Logger) *Repository[T] {
	return &Repository[T]{
		store:         store,
		spreadsheetID: spreadsheetID,
		table:         table,
		codec:         codec,
		log:           log.With().Str("table", table.Name).Logger(),
	}
}

// Query returns a fresh builder for this repository's table.
func (r *Repository[T]) Query() *sheetdb.Builder {
	return sheetdb.NewQuery()
}

// FetchByID returns the entity with the given id, with its current row
// position attached. Returns ErrIDRequired for an empty id and ErrNotFound
// when no row matches.
func (r *Repository[T]) FetchByID(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrIDRequired
	}

	q := sheetdb.NewQuery().WhereEq(r.table.IDColumn, id)
	table, err := r.store.Query(ctx, r.spreadsheetID, r.table.Name, q.String())
	if err != nil {
		return zero, fmt.Errorf("fetching %s %s: %w", r.table.Name, id, err)
	}
	if len(table.Rows) == 0 {
		return zero, fmt.Errorf("%s %s: %w", r.table.Name, id, ErrNotFound)
	}

	return r.decodeRow(table.Rows[0]), nil
}

// FetchMany executes the given query (select * is forced) and decodes every
// returned row, attaching its position.
func (r *Repository[T]) FetchMany(ctx context.Context, q *sheetdb.Builder) ([]T, error) {
	if q == nil {
		q = sheetdb.NewQuery()
	}
	if q.MatchesNothing() {
		return nil, nil
	}
	q.Select()

	table, err := r.store.Query(ctx, r.spreadsheetID, r.table.Name, q.String())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.table.Name, err)
	}

	out := make([]T, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, r.decodeRow(row))
	}
	return out, nil
}

// Count executes the given query as a count aggregate over the id column.
// The predicate logic is shared with FetchMany; only the select differs.
func (r *Repository[T]) Count(ctx context.Context, q *sheetdb.Builder) (int64, error) {
	if q == nil {
		q = sheetdb.NewQuery()
	}
	if q.MatchesNothing() {
		return 0, nil
	}
	q.SelectCount(r.table.IDColumn)

	table, err := r.store.Query(ctx, r.spreadsheetID, r.table.Name, q.String())
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", r.table.Name, err)
	}
	if len(table.Rows) == 0 || len(table.Rows[0].Cells) == 0 {
		return 0, nil
	}
	return sheetdb.CellInt(table.Rows[0].Cells[0]), nil
}

// Create assigns a fresh id (any caller-supplied id is overwritten), appends
// the encoded entity as a new row, then re-fetches by id to return the
// canonical decoded and positioned entity. Returns ErrNotCreated when the
// confirming re-fetch finds nothing.
func (r *Repository[T]) Create(ctx context.Context, e T) (T, error) {
	var zero T
	id := uuid.NewString()
	e.SetEntityID(id)

	cells := append([]interface{}{rowFormula}, r.codec.Encode(e)...)
	if err := r.store.AppendRow(ctx, r.spreadsheetID, r.table.Name, cells); err != nil {
		return zero, fmt.Errorf("creating %s: %w", r.table.Name, err)
	}

	created, err := r.FetchByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return zero, fmt.Errorf("creating %s %s: %w", r.table.Name, id, ErrNotCreated)
		}
		return zero, err
	}

	r.log.Debug().Str("id", id).Int64("row", created.RowPos()).Msg("entity created")
	return created, nil
}

// UpdateByID overwrites the full row of the entity with the given id. The row
// position is re-resolved by a fresh lookup first, the creation stamp is
// carried over from the stored entity, and the post-update state is confirmed
// by another fetch. Returns ErrNotUpdated when that confirmation is empty.
func (r *Repository[T]) UpdateByID(ctx context.Context, id string, e T) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrIDRequired
	}

	current, err := r.FetchByID(ctx, id)
	if err != nil {
		return zero, err
	}
	pos := current.RowPos()
	if pos == 0 {
		return zero, fmt.Errorf("updating %s %s: %w", r.table.Name, id, ErrRowNumberNotFound)
	}

	e.SetEntityID(id)
	e.SetCreated(current.Created())

	cells := append([]interface{}{rowFormula}, r.codec.Encode(e)...)
	if err := r.store.UpdateRow(ctx, r.spreadsheetID, r.table.Name, pos, cells); err != nil {
		return zero, fmt.Errorf("updating %s %s: %w", r.table.Name, id, err)
	}

	updated, err := r.FetchByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return zero, fmt.Errorf("updating %s %s: %w", r.table.Name, id, ErrNotUpdated)
		}
		return zero, err
	}

	r.log.Debug().Str("id", id).Int64("row", pos).Msg("entity updated")
	return updated, nil
}

// DeleteByID removes the entity's row entirely, shifting subsequent rows up
// by one, and returns the pre-deletion entity as confirmation.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrIDRequired
	}

	current, err := r.FetchByID(ctx, id)
	if err != nil {
		return zero, err
	}
	pos := current.RowPos()
	if pos == 0 {
		return zero, fmt.Errorf("deleting %s %s: %w", r.table.Name, id, ErrRowNumberNotFound)
	}

	if err := r.store.DeleteRow(ctx, r.spreadsheetID, r.table.Name, pos); err != nil {
		return zero, fmt.Errorf("deleting %s %s: %w", r.table.Name, id, err)
	}

	r.log.Debug().Str("id", id).Int64("row", pos).Msg("entity deleted")
	return current, nil
}

// decodeRow splits position metadata (column A) from entity content and runs
// the codec over the remaining cells.
func (r *Repository[T]) decodeRow(row sheetdb.Row) T {
	var pos int64
	cells := row.Cells
	if len(cells) > 0 {
		pos = sheetdb.CellInt(cells[0])
		cells = cells[1:]
	}
	e := r.codec.Decode(cells)
	e.SetRowPos(pos)
	return e
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
