package dream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists dreams in postgres through gorm.
type GormStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, now: time.Now}
}

func (s *GormStore) Create(ctx context.Context, d Dream) (Dream, error) {
	normalize(&d)
	if err := Validate(&d); err != nil {
		return Dream{}, err
	}

	now := s.now().UTC()
	d.ID = uuid.New()
	d.SubmittedAt = now
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := s.DB.WithContext(ctx).Create(&d).Error; err != nil {
		return Dream{}, storeErr(err)
	}
	return d, nil
}

func (s *GormStore) GetByID(ctx context.Context, id string) (Dream, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Dream{}, ErrNotFound
	}

	var d Dream
	if err := s.DB.WithContext(ctx).Where("id = ?", uid).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Dream{}, ErrNotFound
		}
		return Dream{}, storeErr(err)
	}
	return d, nil
}

func (s *GormStore) Update(ctx context.Context, id string, p Patch) (Dream, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Dream{}, ErrNotFound
	}

	var out Dream
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// row lock keeps the read-modify-write atomic per record
		var cur Dream
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", uid).
			First(&cur).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		p.apply(&cur)
		normalize(&cur)
		if err := Validate(&cur); err != nil {
			return err
		}
		cur.UpdatedAt = s.now().UTC()

		if err := tx.Save(&cur).Error; err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || IsValidation(err) {
			return Dream{}, err
		}
		return Dream{}, storeErr(err)
	}
	return out, nil
}

func (s *GormStore) Delete(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	res := s.DB.WithContext(ctx).Where("id = ?", uid).Delete(&Dream{})
	if res.Error != nil {
		return false, storeErr(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Query(ctx context.Context, q StoreQuery) ([]Dream, int64, error) {
	if q.Skip < 0 {
		q.Skip = 0
	}
	base := applyFilter(s.DB.WithContext(ctx).Model(&Dream{}), q.Filter).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	if total == 0 || int64(q.Skip) >= total {
		return []Dream{}, total, nil
	}

	find := base.Order(orderClause(q.Sort)).Order("id asc").Offset(q.Skip)
	if q.Limit > 0 {
		find = find.Limit(q.Limit)
	}

	var rows []Dream
	if err := find.Find(&rows).Error; err != nil {
		return nil, 0, storeErr(err)
	}
	return rows, total, nil
}

func (s *GormStore) CountByStatus(ctx context.Context) (Counts, error) {
	var rows []struct {
		Status Status
		Count  int64
	}
	if err := s.DB.WithContext(ctx).Raw(`
		select status, count(*) as count
		from dreams
		group by status
	`).Scan(&rows).Error; err != nil {
		return Counts{}, storeErr(err)
	}

	var c Counts
	for _, r := range rows {
		c.add(r.Status, r.Count)
	}
	return c, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Gender != "" {
		q = q.Where("gender = ?", f.Gender)
	}
	if f.MaritalStatus != "" {
		q = q.Where("marital_status = ?", f.MaritalStatus)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.IsPublic != nil {
		q = q.Where("is_public = ?", *f.IsPublic)
	}
	if f.Search != "" {
		like := "%" + escapeLike(f.Search) + "%"
		q = q.Where("(name ILIKE ? OR dream ILIKE ? OR interpretation ILIKE ?)", like, like, like)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

// orderClause matches MemoryStore: unset values sort first ascending and
// last descending.
func orderClause(s Sort) string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[SortSubmittedAt]
	}
	if s.Desc {
		return fmt.Sprintf("%s desc nulls last", col)
	}
	return fmt.Sprintf("%s asc nulls first", col)
}
