package dream

import (
	"context"
	"math"
	"strings"
)

const (
	DefaultLimit      = 10
	DefaultAdminLimit = 20
	MaxLimit          = 100
)

type ListInput struct {
	Page          int
	Limit         int
	Gender        string
	MaritalStatus string
	Status        string
	Search        string
	SortBy        string
	SortOrder     string
	IncludeStats  bool
}

type Pagination struct {
	Current int   `json:"current"`
	Total   int64 `json:"total"`
	Count   int64 `json:"count"`
	PerPage int   `json:"perPage"`
}

type ListResult struct {
	Dreams     []Dream
	Pagination Pagination
	// Stats covers the whole collection, not the filtered set.
	Stats *Counts
}

// List returns one page of dreams matching every supplied filter.
// defaultLimit applies when in.Limit is unset.
func (s *Service) List(ctx context.Context, in ListInput, defaultLimit int) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := StoreQuery{
		Filter: Filter{
			Gender:        Gender(strings.TrimSpace(in.Gender)),
			MaritalStatus: MaritalStatus(strings.TrimSpace(in.MaritalStatus)),
			Status:        Status(strings.TrimSpace(in.Status)),
			Search:        strings.TrimSpace(in.Search),
		},
		Sort: Sort{
			Field: ParseSortField(in.SortBy),
			Desc:  !strings.EqualFold(strings.TrimSpace(in.SortOrder), "asc"),
		},
		Skip:  pageOffset(page, limit),
		Limit: limit,
	}

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rows, total, err := s.Store.Query(ctx, q)
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{
		Dreams: rows,
		Pagination: Pagination{
			Current: page,
			Total:   (total + int64(limit) - 1) / int64(limit),
			Count:   total,
			PerPage: limit,
		},
	}

	if in.IncludeStats {
		c, err := s.Store.CountByStatus(ctx)
		if err != nil {
			return ListResult{}, err
		}
		res.Stats = &c
	}

	return res, nil
}

// pageOffset is the number of rows before page. Offsets that would overflow
// saturate at math.MaxInt, which every store treats as past the end.
func pageOffset(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Public lists interpreted dreams marked public, newest interpretation first.
func (s *Service) Public(ctx context.Context) ([]Dream, error) {
	public := true

	ctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rows, _, err := s.Store.Query(ctx, StoreQuery{
		Filter: Filter{Status: StatusInterpreted, IsPublic: &public},
		Sort:   Sort{Field: SortInterpretedAt, Desc: true},
	})
	return rows, err
}
