package dream

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps dreams in process memory. Used with STORE=memory and in
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Dream
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[uuid.UUID]Dream{}, now: time.Now}
}

func (s *MemoryStore) Create(ctx context.Context, d Dream) (Dream, error) {
	if err := ctx.Err(); err != nil {
		return Dream{}, storeErr(err)
	}
	normalize(&d)
	if err := Validate(&d); err != nil {
		return Dream{}, err
	}

	now := s.now().UTC()
	d.ID = uuid.New()
	d.SubmittedAt = now
	d.CreatedAt = now
	d.UpdatedAt = now

	s.mu.Lock()
	s.items[d.ID] = d.clone()
	s.mu.Unlock()

	return d.clone(), nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id string) (Dream, error) {
	if err := ctx.Err(); err != nil {
		return Dream{}, storeErr(err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Dream{}, ErrNotFound
	}

	s.mu.RLock()
	d, ok := s.items[uid]
	s.mu.RUnlock()
	if !ok {
		return Dream{}, ErrNotFound
	}
	return d.clone(), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, p Patch) (Dream, error) {
	if err := ctx.Err(); err != nil {
		return Dream{}, storeErr(err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return Dream{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[uid]
	if !ok {
		return Dream{}, ErrNotFound
	}
	next := cur.clone()
	p.apply(&next)
	normalize(&next)
	if err := Validate(&next); err != nil {
		return Dream{}, err
	}
	next.UpdatedAt = s.now().UTC()
	s.items[uid] = next

	return next.clone(), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storeErr(err)
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[uid]; !ok {
		return false, nil
	}
	delete(s.items, uid)
	return true, nil
}

func (s *MemoryStore) Query(ctx context.Context, q StoreQuery) ([]Dream, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, storeErr(err)
	}

	s.mu.RLock()
	matched := make([]Dream, 0, len(s.items))
	for _, d := range s.items {
		if q.Filter.matches(d) {
			matched = append(matched, d.clone())
		}
	}
	s.mu.RUnlock()

	sortDreams(matched, q.Sort)

	total := int64(len(matched))
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Skip >= len(matched) {
		return []Dream{}, total, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Limit < end-q.Skip {
		end = q.Skip + q.Limit
	}
	return matched[q.Skip:end], total, nil
}

func (s *MemoryStore) CountByStatus(ctx context.Context) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, storeErr(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Counts
	for _, d := range s.items {
		c.add(d.Status, 1)
	}
	return c, nil
}

func (c *Counts) add(st Status, n int64) {
	switch st {
	case StatusPending:
		c.Pending += n
	case StatusInterpreted:
		c.Interpreted += n
	case StatusArchived:
		c.Archived += n
	}
	c.Total += n
}

func (f Filter) matches(d Dream) bool {
	if f.Gender != "" && d.Gender != f.Gender {
		return false
	}
	if f.MaritalStatus != "" && d.MaritalStatus != f.MaritalStatus {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.IsPublic != nil && d.IsPublic != *f.IsPublic {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(d.Name), needle) || strings.Contains(strings.ToLower(d.Dream), needle) {
		return true
	}
	return d.Interpretation != nil && strings.Contains(strings.ToLower(*d.Interpretation), needle)
}

func sortDreams(ds []Dream, s Sort) {
	sort.SliceStable(ds, func(i, j int) bool {
		c := compareField(ds[i], ds[j], s.Field)
		if c == 0 {
			return ds[i].ID.String() < ds[j].ID.String()
		}
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareField(a, b Dream, f SortField) int {
	switch f {
	case SortInterpretedAt:
		return compareTimePtr(a.InterpretedAt, b.InterpretedAt)
	case SortName:
		return strings.Compare(a.Name, b.Name)
	case SortStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case SortGender:
		return strings.Compare(string(a.Gender), string(b.Gender))
	case SortMaritalStatus:
		return strings.Compare(string(a.MaritalStatus), string(b.MaritalStatus))
	case SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.SubmittedAt.Compare(b.SubmittedAt)
	}
}

// unset timestamps order before set ones.
func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}
