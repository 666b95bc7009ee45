package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nalgeon/be"
)

func openMemory(t *testing.T) *RunLog {
	t.Helper()
	l, err := Open(":memory:")
	be.Err(t, err, nil)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndGet(t *testing.T) {
	l := openMemory(t)

	id, err := l.Record(&Run{
		Name:         "prog",
		Source:       "int a = 1;",
		Tokens:       6,
		Nodes:        3,
		Instructions: 2,
		Status:       StatusOK,
	})
	be.Err(t, err, nil)
	be.True(t, id != "")

	got, err := l.Get(id)
	be.Err(t, err, nil)
	be.Equal(t, got.Name, "prog")
	be.Equal(t, got.Source, "int a = 1;")
	be.Equal(t, got.Tokens, 6)
	be.Equal(t, got.Nodes, 3)
	be.Equal(t, got.Instructions, 2)
	be.Equal(t, got.Status, StatusOK)
	be.Equal(t, len(got.Diagnostics), 0)
	be.True(t, !got.Time.IsZero())
}

func TestRecordDiagnostics(t *testing.T) {
	l := openMemory(t)
	diags := []string{
		"line 1, column 1: Variable 'x' used before declaration.",
		"line 2, column 5: Variable 'a' is already declared.",
	}

	id, err := l.Record(&Run{Name: "bad", Diagnostics: diags, Status: StatusSemanticError})
	be.Err(t, err, nil)

	got, err := l.Get(id)
	be.Err(t, err, nil)
	be.Equal(t, got.Diagnostics, diags)
}

func TestRecordKeepsGivenID(t *testing.T) {
	l := openMemory(t)
	id, err := l.Record(&Run{ID: "fixed", Status: StatusOK})
	be.Err(t, err, nil)
	be.Equal(t, id, "fixed")

	_, err = l.Record(&Run{ID: "fixed", Status: StatusOK})
	be.Err(t, err, "saving run")
}

func TestGetMissing(t *testing.T) {
	l := openMemory(t)
	_, err := l.Get("nope")
	be.Err(t, err, ErrRunNotFound)
}

func TestRecentNewestFirst(t *testing.T) {
	l := openMemory(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		_, err := l.Record(&Run{Name: name, Time: base.Add(time.Duration(i) * time.Minute), Status: StatusOK})
		be.Err(t, err, nil)
	}

	runs, err := l.Recent(2)
	be.Err(t, err, nil)
	be.Equal(t, len(runs), 2)
	be.Equal(t, runs[0].Name, "third")
	be.Equal(t, runs[1].Name, "second")
	be.True(t, runs[0].Time.Equal(base.Add(2*time.Minute)))
}

func TestCountByStatus(t *testing.T) {
	l := openMemory(t)
	for _, s := range []string{StatusOK, StatusOK, StatusSyntaxError, StatusRuntimeFault} {
		_, err := l.Record(&Run{Status: s})
		be.Err(t, err, nil)
	}

	counts, err := l.CountByStatus()
	be.Err(t, err, nil)
	be.Equal(t, counts, map[string]int{
		StatusOK:           2,
		StatusSyntaxError:  1,
		StatusRuntimeFault: 1,
	})
}

func TestReopenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	l, err := Open(path)
	be.Err(t, err, nil)
	id, err := l.Record(&Run{Name: "persisted", Status: StatusOK})
	be.Err(t, err, nil)
	be.Err(t, l.Close(), nil)

	l, err = Open(path)
	be.Err(t, err, nil)
	defer l.Close()

	got, err := l.Get(id)
	be.Err(t, err, nil)
	be.Equal(t, got.Name, "persisted")
}
