package dream

import (
	"context"
	"fmt"
	"strings"
)

// Store owns persisted dreams. Implementations return copies; mutation goes
// through Create, Update and Delete only.
type Store interface {
	Create(ctx context.Context, d Dream) (Dream, error)
	GetByID(ctx context.Context, id string) (Dream, error)
	Update(ctx context.Context, id string, p Patch) (Dream, error)
	Delete(ctx context.Context, id string) (bool, error)
	Query(ctx context.Context, q StoreQuery) ([]Dream, int64, error)
	CountByStatus(ctx context.Context) (Counts, error)
}

// Filter is a conjunction of exact-match predicates plus an optional
// case-insensitive substring search over name, dream and interpretation.
type Filter struct {
	Gender        Gender
	MaritalStatus MaritalStatus
	Status        Status
	IsPublic      *bool
	Search        string
}

type SortField string

const (
	SortSubmittedAt   SortField = "submittedAt"
	SortInterpretedAt SortField = "interpretedAt"
	SortName          SortField = "name"
	SortStatus        SortField = "status"
	SortGender        SortField = "gender"
	SortMaritalStatus SortField = "maritalStatus"
	SortCreatedAt     SortField = "createdAt"
	SortUpdatedAt     SortField = "updatedAt"
)

var sortColumns = map[SortField]string{
	SortSubmittedAt:   "submitted_at",
	SortInterpretedAt: "interpreted_at",
	SortName:          "name",
	SortStatus:        "status",
	SortGender:        "gender",
	SortMaritalStatus: "marital_status",
	SortCreatedAt:     "created_at",
	SortUpdatedAt:     "updated_at",
}

// ParseSortField resolves a caller-supplied field name. "date" is a legacy
// alias for submittedAt; unknown names fall back to submittedAt.
func ParseSortField(s string) SortField {
	s = strings.TrimSpace(s)
	if s == "date" {
		return SortSubmittedAt
	}
	if _, ok := sortColumns[SortField(s)]; ok {
		return SortField(s)
	}
	return SortSubmittedAt
}

type Sort struct {
	Field SortField
	Desc  bool
}

type StoreQuery struct {
	Filter Filter
	Sort   Sort
	Skip   int
	Limit  int
}

// storeErr hides driver detail behind ErrStoreUnavailable while keeping it
// in the message for logs.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
