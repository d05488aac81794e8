package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/rappel/internal/deck"
)

// ErrNotFound is returned when no record has the requested uuid.
var ErrNotFound = errors.New("record not found")

// Record is one row of the records table.
type Record struct {
	UUID         string `sql:"uuid"`
	MediaFile    string `sql:"media_file"`
	Question     string `sql:"question"`
	Response     string `sql:"response"`
	CreationDate string `sql:"creation_date"`
	StartMs      *int64 `sql:"start_ms"`
	EndMs        *int64 `sql:"end_ms"`
	Attribution  string `sql:"attribution"`
}

// Entry converts the row to a deck entry.
func (r Record) Entry() deck.Entry {
	return deck.Entry{
		ID:        r.UUID,
		Question:  r.Question,
		Answers:   deck.SplitAnswers(r.Response),
		MediaPath: r.MediaFile,
		CreatedAt: r.CreationDate,
	}
}

// NewRecord holds the fields for Insert. Empty ID and CreatedAt are
// generated.
type NewRecord struct {
	MediaPath   string
	Question    string
	Response    string
	StartMs     *int64
	EndMs       *int64
	ID          string
	CreatedAt   string
	Attribution string
}

// InsertResult reports what Insert did.
type InsertResult struct {
	ID        string
	Duplicate bool
}

// Fields holds the columns Update may change. Nil fields are left as is.
type Fields struct {
	Question  *string
	Response  *string
	MediaPath *string
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Insert adds a record. A record with the same question and response
// already present is reported as a duplicate, not an error.
func (s *Store) Insert(ctx context.Context, rec NewRecord) (InsertResult, error) {
	if strings.TrimSpace(rec.Question) == "" {
		return InsertResult{}, errors.New("insert record: empty question")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = time.Now().Format(time.DateOnly)
	} else if _, err := time.Parse(time.DateOnly, rec.CreatedAt); err != nil {
		return InsertResult{}, fmt.Errorf("insert record: creation date %q: %w", rec.CreatedAt, err)
	}

	exists, err := s.exists(ctx, entsql.And(
		entsql.EQ(colQuestion, rec.Question),
		entsql.EQ(colResponse, rec.Response),
	))
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert record: %w", err)
	}
	if exists {
		return InsertResult{Duplicate: true}, nil
	}

	query, args := builder().Insert(recordsTable).
		Columns(recordColumns...).
		Values(rec.ID, rec.MediaPath, rec.Question, rec.Response,
			rec.CreatedAt, nullable(rec.StartMs), nullable(rec.EndMs), rec.Attribution).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		if isUniqueViolation(err) {
			return InsertResult{Duplicate: true}, nil
		}
		return InsertResult{}, fmt.Errorf("insert record: %w", err)
	}
	return InsertResult{ID: rec.ID}, nil
}

// FetchAll returns every record ordered by creation date.
func (s *Store) FetchAll(ctx context.Context) ([]deck.Entry, error) {
	return s.fetch(ctx, nil)
}

// FetchByDateRange returns records created between start and end
// inclusive. Both dates use the YYYY-MM-DD layout.
func (s *Store) FetchByDateRange(ctx context.Context, start, end string) ([]deck.Entry, error) {
	for _, d := range []string{start, end} {
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return nil, fmt.Errorf("fetch by date: invalid date %q: %w", d, err)
		}
	}
	return s.fetch(ctx, entsql.And(
		entsql.GTE(colCreationDate, start),
		entsql.LTE(colCreationDate, end),
	))
}

// FetchByUUID returns the record with id. ok is false when there is none.
func (s *Store) FetchByUUID(ctx context.Context, id string) (deck.Entry, bool, error) {
	recs, err := s.records(ctx, entsql.EQ(colUUID, id))
	if err != nil {
		return deck.Entry{}, false, err
	}
	if len(recs) == 0 {
		return deck.Entry{}, false, nil
	}
	return recs[0].Entry(), true, nil
}

// FetchByUUIDs returns the records for ids in the order given. Unknown ids
// are skipped.
func (s *Store) FetchByUUIDs(ctx context.Context, ids []string) ([]deck.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	recs, err := s.records(ctx, entsql.In(colUUID, args...))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]deck.Entry, len(recs))
	for _, r := range recs {
		byID[r.UUID] = r.Entry()
	}
	out := make([]deck.Entry, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Records returns raw rows, optionally limited to a date range. Empty
// bounds are open.
func (s *Store) Records(ctx context.Context, start, end string) ([]Record, error) {
	var preds []*entsql.Predicate
	if start != "" {
		preds = append(preds, entsql.GTE(colCreationDate, start))
	}
	if end != "" {
		preds = append(preds, entsql.LTE(colCreationDate, end))
	}
	var where *entsql.Predicate
	if len(preds) > 0 {
		where = entsql.And(preds...)
	}
	return s.records(ctx, where)
}

// Update changes the given fields of record id.
func (s *Store) Update(ctx context.Context, id string, f Fields) error {
	u := builder().Update(recordsTable).Where(entsql.EQ(colUUID, id))
	changed := false
	if f.Question != nil {
		u.Set(colQuestion, *f.Question)
		changed = true
	}
	if f.Response != nil {
		u.Set(colResponse, *f.Response)
		changed = true
	}
	if f.MediaPath != nil {
		u.Set(colMediaFile, *f.MediaPath)
		changed = true
	}
	if !changed {
		return nil
	}

	query, args := u.Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update record %s: question and response already exist", id)
		}
		return fmt.Errorf("update record %s: %w", id, err)
	}
	return affected(res, id)
}

// Delete removes record id.
func (s *Store) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete(recordsTable).Where(entsql.EQ(colUUID, id)).Query()
	var res sql.Result
	if err := s.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return affected(res, id)
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	query, args := builder().Select().Count().From(builder().Table(recordsTable)).Query()
	return s.scanInt(ctx, query, args)
}

func (s *Store) exists(ctx context.Context, where *entsql.Predicate) (bool, error) {
	query, args := builder().Select().Count().From(builder().Table(recordsTable)).Where(where).Query()
	n, err := s.scanInt(ctx, query, args)
	return n > 0, err
}

func (s *Store) scanInt(ctx context.Context, query string, args []any) (int, error) {
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	n, err := entsql.ScanInt(&rows)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) fetch(ctx context.Context, where *entsql.Predicate) ([]deck.Entry, error) {
	recs, err := s.records(ctx, where)
	if err != nil {
		return nil, err
	}
	out := make([]deck.Entry, len(recs))
	for i, r := range recs {
		out[i] = r.Entry()
	}
	return out, nil
}

func (s *Store) records(ctx context.Context, where *entsql.Predicate) ([]Record, error) {
	sel := builder().Select(recordColumns...).
		From(builder().Table(recordsTable)).
		OrderBy(entsql.Asc(colCreationDate), entsql.Asc(colUUID))
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	if err := entsql.ScanSlice(&rows, &recs); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return recs, nil
}

func affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
