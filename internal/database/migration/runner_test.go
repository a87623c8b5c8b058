package migration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"skilllink/internal/database"
)

func TestLoad_OrdersAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"V2__add_jobs.sql":   {Data: []byte("CREATE TABLE jobs();")},
		"V1__init.sql":       {Data: []byte("  CREATE TABLE users(); \n")},
		"README.md":          {Data: []byte("docs")},
		"V3_missing_sep.sql": {Data: []byte("SELECT 1;")},
	}

	migs, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("len = %d, want 2", len(migs))
	}
	if migs[0].Version != 1 || migs[0].Name != "init" || migs[1].Version != 2 {
		t.Fatalf("unexpected order: %+v", migs)
	}
	if migs[0].SQL != "CREATE TABLE users();" {
		t.Fatalf("SQL not trimmed: %q", migs[0].SQL)
	}
	if migs[0].Checksum == "" || migs[0].Checksum == migs[1].Checksum {
		t.Fatalf("bad checksums")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(fstest.MapFS{"V1__a.sql": {Data: []byte("  ")}}); err == nil {
		t.Fatalf("expected empty file error")
	}
	dup := fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1;")},
		"V01__b.sql": {Data: []byte("SELECT 2;")},
	}
	if _, err := Load(dup); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestRun_AppliesPendingOnly(t *testing.T) {
	fsys := fstest.MapFS{
		"V1__init.sql": {Data: []byte("CREATE TABLE a();")},
		"V2__next.sql": {Data: []byte("CREATE TABLE b();")},
	}
	migs, _ := Load(fsys)

	db := &fakeDB{applied: map[int64]string{1: migs[0].Checksum}}
	if err := (Runner{FS: fsys}).Run(context.Background(), db); err != nil {
		t.Fatalf("Run() err = %v", err)
	}

	if !db.committed {
		t.Fatalf("expected commit")
	}
	if db.ran("CREATE TABLE a();") {
		t.Fatalf("V1 already applied, should not rerun")
	}
	if !db.ran("CREATE TABLE b();") {
		t.Fatalf("V2 should be applied")
	}
	if !db.ran("pg_advisory_xact_lock") {
		t.Fatalf("expected advisory lock")
	}
}

func TestRun_ChecksumMismatch(t *testing.T) {
	fsys := fstest.MapFS{"V1__init.sql": {Data: []byte("CREATE TABLE a();")}}
	db := &fakeDB{applied: map[int64]string{1: "deadbeef"}}

	err := (Runner{FS: fsys}).Run(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if db.committed {
		t.Fatalf("must not commit on mismatch")
	}
}

func TestRun_NilDB(t *testing.T) {
	err := (Runner{FS: fstest.MapFS{}}).Run(context.Background(), nil)
	if !errors.Is(err, database.ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
}

type fakeDB struct {
	applied   map[int64]string
	execs     []string
	committed bool
}

func (f *fakeDB) ran(fragment string) bool {
	for _, q := range f.execs {
		if strings.Contains(q, fragment) {
			return true
		}
	}
	return false
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }

func (f *fakeDB) Exec(_ context.Context, query string, _ ...any) (int64, error) {
	f.execs = append(f.execs, query)
	return 0, nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (database.Rows, error) {
	rows := &fakeRows{}
	for v, c := range f.applied {
		rows.data = append(rows.data, [2]any{v, c})
	}
	return rows, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (f *fakeDB) Begin(context.Context) (database.Tx, error) { return &fakeTx{db: f}, nil }

type fakeTx struct{ db *fakeDB }

func (t *fakeTx) Exec(ctx context.Context, q string, args ...any) (int64, error) {
	return t.db.Exec(ctx, q, args...)
}

func (t *fakeTx) Query(ctx context.Context, q string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, q, args...)
}

func (t *fakeTx) QueryRow(context.Context, string, ...any) database.Row { return nil }

func (t *fakeTx) Commit(context.Context) error {
	t.db.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error { return nil }

type fakeRows struct {
	data [][2]any
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	*dest[0].(*int64) = row[0].(int64)
	*dest[1].(*string) = row[1].(string)
	return nil
}
