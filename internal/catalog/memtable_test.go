package catalog

import (
	"context"
	"strings"
)

// fakeTable is an in-memory RecordTable for store tests. Error fields make
// individual operations fail on demand.
type fakeTable struct {
	rows []ProductRow

	selectErr error
	insertErr error
	upsertErr error
	deleteErr error

	selectCalls int
}

func (f *fakeTable) SelectAll(ctx context.Context) ([]ProductRow, error) {
	f.selectCalls++
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]ProductRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeTable) SelectByID(ctx context.Context, id string) (*ProductRow, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	for i := range f.rows {
		if f.rows[i].ID == id {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeTable) SelectByName(ctx context.Context, name string) ([]ProductRow, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	out := make([]ProductRow, 0)
	for _, row := range f.rows {
		if row.Name == name {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeTable) Insert(ctx context.Context, row ProductRow) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeTable) InsertMany(ctx context.Context, rows []ProductRow) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeTable) UpsertByID(ctx context.Context, row ProductRow) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i := range f.rows {
		if f.rows[i].ID == row.ID {
			f.rows[i] = row
			return nil
		}
	}
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeTable) DeleteByID(ctx context.Context, id string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleteWhere(func(row ProductRow) bool { return row.ID == id }), nil
}

func (f *fakeTable) DeleteByName(ctx context.Context, name string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleteWhere(func(row ProductRow) bool { return row.Name == name }), nil
}

func (f *fakeTable) DeleteByNamePattern(ctx context.Context, fragment string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	needle := strings.ToLower(fragment)
	return f.deleteWhere(func(row ProductRow) bool {
		return strings.Contains(strings.ToLower(row.Name), needle)
	}), nil
}

func (f *fakeTable) DeleteByNameExcept(ctx context.Context, name, keepID string) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleteWhere(func(row ProductRow) bool {
		return row.Name == name && row.ID != keepID
	}), nil
}

func (f *fakeTable) deleteWhere(match func(ProductRow) bool) int64 {
	kept := f.rows[:0]
	var removed int64
	for _, row := range f.rows {
		if match(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	f.rows = kept
	return removed
}
