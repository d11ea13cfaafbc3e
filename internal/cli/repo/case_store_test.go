package repo

import (
	"CaseKeeper/internal/model"
	srvrepo "CaseKeeper/internal/repo"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV — KV в памяти для тестов
type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
	fail error
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.puts++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Close() error { return nil }

func mkCase(id string, last time.Time) model.Case {
	return model.Case{
		ID: id, Name: "n-" + id, CreatedAt: last, LastDiagnosisTime: last,
		Diagnoses: []model.Diagnosis{{ID: "d-" + id, Content: "c", CreatedAt: last, Images: []model.Image{}}},
	}
}

func TestCaseStore_EmptyAndCreateGet(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewCaseStore(kv)

	list, err := s.ListCases(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err := s.CountCases(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := mkCase("a", now)
	require.NoError(t, s.CreateCase(ctx, &c))
	assert.Error(t, s.CreateCase(ctx, &c), "duplicate id")

	got, err := s.GetCase(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "n-a", got.Name)
	assert.True(t, got.CreatedAt.Equal(now))

	_, err = s.GetCase(ctx, "zzz")
	assert.ErrorIs(t, err, srvrepo.ErrNotFound)

	// вся коллекция лежит под одним ключом
	assert.Len(t, kv.data, 1)
	assert.Contains(t, kv.data, CasesKey)
}

func TestCaseStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	s := NewCaseStore(newMemKV())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new", "mid"} {
		c := mkCase(id, base.Add(time.Duration([]int{1, 3, 2}[i])*time.Hour))
		require.NoError(t, s.CreateCase(ctx, &c))
	}
	list, err := s.ListCases(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestCaseStore_SaveCase(t *testing.T) {
	ctx := context.Background()
	s := NewCaseStore(newMemKV())
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := mkCase("a", t0)
	require.NoError(t, s.CreateCase(ctx, &c))

	upd := c
	upd.Name = "renamed"
	upd.CreatedAt = t0.Add(time.Hour) // не должно примениться
	upd.LastDiagnosisTime = t0.Add(2 * time.Hour)
	require.NoError(t, s.SaveCase(ctx, &upd))

	got, err := s.GetCase(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.True(t, got.LastDiagnosisTime.Equal(t0.Add(2*time.Hour)))

	ghost := mkCase("ghost", t0)
	assert.ErrorIs(t, s.SaveCase(ctx, &ghost), srvrepo.ErrNotFound)
}

func TestCaseStore_CreateCasesAndFailures(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := NewCaseStore(kv)
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateCases(ctx, []model.Case{mkCase("a", t0), mkCase("b", t0)}))
	assert.Equal(t, 1, kv.puts, "batch is a single write")
	n, err := s.CountCases(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.Error(t, s.CreateCases(ctx, []model.Case{mkCase("c", t0), mkCase("a", t0)}))
	n, _ = s.CountCases(ctx)
	assert.Equal(t, int64(2), n, "failed batch leaves the collection untouched")

	kv.fail = errors.New("disk full")
	c := mkCase("d", t0)
	assert.Error(t, s.CreateCase(ctx, &c))

	kv.data[CasesKey] = []byte("{broken")
	_, err = s.ListCases(ctx)
	assert.Error(t, err)
}
