package dream

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

type MaritalStatus string

const (
	Single  MaritalStatus = "single"
	Married MaritalStatus = "married"
)

type Status string

const (
	StatusPending     Status = "pending"
	StatusInterpreted Status = "interpreted"
	StatusArchived    Status = "archived"
)

func (g Gender) Valid() bool { return g == Male || g == Female }
func (m MaritalStatus) Valid() bool { return m == Single || m == Married }
func (s Status) Valid() bool { return s == StatusPending || s == StatusInterpreted || s == StatusArchived }

// UnknownIP is stored when the client address cannot be resolved.
const UnknownIP = "unknown"

// Dream is one submitted dream and its optional interpretation.
// ID and SubmittedAt are assigned by the store and never change.
type Dream struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Name          string        `gorm:"type:varchar(100);not null"`
	Gender        Gender        `gorm:"type:text;not null"`
	MaritalStatus MaritalStatus `gorm:"type:text;not null"`
	Dream         string        `gorm:"type:text;not null"`
	IPAddress     string        `gorm:"type:text;not null"`
	SubmittedAt   time.Time     `gorm:"type:timestamptz;not null"`

	Interpretation *string    `gorm:"type:text"`
	InterpretedAt  *time.Time `gorm:"type:timestamptz"`
	InterpretedBy  *string    `gorm:"type:varchar(100)"`

	Status   Status         `gorm:"type:text;not null"`
	Tags     pq.StringArray `gorm:"type:text[];not null"`
	IsPublic bool           `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Counts is the per-status breakdown of the whole collection.
type Counts struct {
	Pending     int64 `json:"pending"`
	Interpreted int64 `json:"interpreted"`
	Archived    int64 `json:"archived"`
	Total       int64 `json:"total"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Interpretation *string
	InterpretedAt  *time.Time
	InterpretedBy  *string
	Status         *Status
	Tags           *[]string
	IsPublic       *bool

	// Mutate runs last, on the current record, while the store holds it
	// locked. Use it for changes that depend on the stored value.
	Mutate func(d *Dream)
}

func (p Patch) apply(d *Dream) {
	if p.Interpretation != nil {
		v := *p.Interpretation
		d.Interpretation = &v
	}
	if p.InterpretedAt != nil {
		v := *p.InterpretedAt
		d.InterpretedAt = &v
	}
	if p.InterpretedBy != nil {
		v := *p.InterpretedBy
		d.InterpretedBy = &v
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Tags != nil {
		d.Tags = pq.StringArray(append([]string{}, (*p.Tags)...))
	}
	if p.IsPublic != nil {
		d.IsPublic = *p.IsPublic
	}
	if p.Mutate != nil {
		p.Mutate(d)
	}
}

// clone returns a deep copy so callers never share pointers with a store.
func (d Dream) clone() Dream {
	out := d
	if d.Interpretation != nil {
		v := *d.Interpretation
		out.Interpretation = &v
	}
	if d.InterpretedAt != nil {
		v := *d.InterpretedAt
		out.InterpretedAt = &v
	}
	if d.InterpretedBy != nil {
		v := *d.InterpretedBy
		out.InterpretedBy = &v
	}
	out.Tags = pq.StringArray(append([]string{}, d.Tags...))
	return out
}
