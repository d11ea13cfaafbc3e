package repo

import (
	"CaseKeeper/internal/model"
	srvrepo "CaseKeeper/internal/repo"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// CasesKey — ключ, под которым лежит вся коллекция записей.
const CasesKey = "cases"

// CaseStore хранит всю коллекцию одним JSON-значением под ключом CasesKey.
// Каждая мутация — чтение, изменение и запись коллекции целиком.
type CaseStore struct {
	mu sync.Mutex
	kv KV
}

var _ srvrepo.CaseRepository = (*CaseStore)(nil)

func NewCaseStore(kv KV) *CaseStore {
	return &CaseStore{kv: kv}
}

func (s *CaseStore) load() ([]model.Case, error) {
	b, err := s.kv.Get(CasesKey)
	if errors.Is(err, ErrKeyNotFound) || (err == nil && len(b) == 0) {
		return []model.Case{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cs []model.Case
	if err := json.Unmarshal(b, &cs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", CasesKey, err)
	}
	return cs, nil
}

func (s *CaseStore) store(cs []model.Case) error {
	b, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	return s.kv.Put(CasesKey, b)
}

func indexOf(cs []model.Case, id string) int {
	for i := range cs {
		if cs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *CaseStore) ListCases(ctx context.Context) ([]model.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(cs, func(i, j int) bool {
		if !cs[i].LastDiagnosisTime.Equal(cs[j].LastDiagnosisTime) {
			return cs[i].LastDiagnosisTime.After(cs[j].LastDiagnosisTime)
		}
		return cs[i].CreatedAt.After(cs[j].CreatedAt)
	})
	return cs, nil
}

func (s *CaseStore) GetCase(ctx context.Context, id string) (*model.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(cs, id)
	if i < 0 {
		return nil, srvrepo.ErrNotFound
	}
	c := cs[i]
	return &c, nil
}

func (s *CaseStore) CreateCase(ctx context.Context, c *model.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := s.load()
	if err != nil {
		return err
	}
	if indexOf(cs, c.ID) >= 0 {
		return fmt.Errorf("case %s already exists", c.ID)
	}
	return s.store(append(cs, *c))
}

func (s *CaseStore) SaveCase(ctx context.Context, c *model.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(cs, c.ID)
	if i < 0 {
		return srvrepo.ErrNotFound
	}
	updated := *c
	updated.CreatedAt = cs[i].CreatedAt
	cs[i] = updated
	return s.store(cs)
}

func (s *CaseStore) CountCases(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := s.load()
	if err != nil {
		return 0, err
	}
	return int64(len(cs)), nil
}

func (s *CaseStore) CreateCases(ctx context.Context, batch []model.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs, err := s.load()
	if err != nil {
		return err
	}
	for _, c := range batch {
		if indexOf(cs, c.ID) >= 0 {
			return fmt.Errorf("case %s already exists", c.ID)
		}
		cs = append(cs, c)
	}
	return s.store(cs)
}
