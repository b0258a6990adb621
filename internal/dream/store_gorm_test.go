package dream

import (
	"context"
	"database/sql/driver"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormWithMock(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStore(gdb), mock
}

var dreamColumns = []string{
	"id", "name", "gender", "marital_status", "dream", "ip_address", "submitted_at",
	"interpretation", "interpreted_at", "interpreted_by", "status", "tags", "is_public",
	"created_at", "updated_at",
}

func pendingRow(id uuid.UUID, at time.Time) []driver.Value {
	return []driver.Value{
		id.String(), "Aisha", "female", "single", "I saw a river of milk.", "10.0.0.1", at,
		nil, nil, nil, "pending", "{}", false,
		at, at,
	}
}

func rowsOf(vals ...[]driver.Value) *sqlmock.Rows {
	rows := sqlmock.NewRows(dreamColumns)
	for _, v := range vals {
		rows.AddRow(v...)
	}
	return rows
}

func TestGormStore_GetByID(t *testing.T) {
	store, mock := newGormWithMock(t)
	id := uuid.New()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1`).
		WillReturnRows(rowsOf(pendingRow(id, at)))

	d, err := store.GetByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, id, d.ID)
	assert.Equal(t, "Aisha", d.Name)
	assert.Equal(t, Female, d.Gender)
	assert.Equal(t, StatusPending, d.Status)
	assert.Nil(t, d.Interpretation)
	assert.Empty(t, d.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetByID_NotFound(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(dreamColumns))

	_, err := store.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetByID_MalformedSkipsQuery(t *testing.T) {
	store, mock := newGormWithMock(t)

	_, err := store.GetByID(context.Background(), "65f0c0ffee")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetByID_DBError(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT \* FROM "dreams"`).WillReturnError(errors.New("db down"))

	_, err := store.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGormStore_Delete(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectExec(`DELETE FROM "dreams" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := store.Delete(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(`DELETE FROM "dreams" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = store.Delete(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Delete(context.Background(), "bogus")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Query_FiltersAndOrder(t *testing.T) {
	store, mock := newGormWithMock(t)
	id := uuid.New()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dreams" WHERE gender = \$1 AND .*name ILIKE \$2 OR dream ILIKE \$3 OR interpretation ILIKE \$4`).
		WithArgs("female", "%river\\%%", "%river\\%%", "%river\\%%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE gender = \$1 AND .*ORDER BY submitted_at asc nulls first,\s*id asc LIMIT .* OFFSET`).
		WillReturnRows(rowsOf(pendingRow(id, at)))

	rows, total, err := store.Query(context.Background(), StoreQuery{
		Filter: Filter{Gender: Female, Search: "river%"},
		Sort:   Sort{Field: SortSubmittedAt},
		Skip:   5,
		Limit:  5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	require.Len(t, rows, 1)
	assert.Equal(t, id, rows[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Query_PastEndSkipsFind(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dreams"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows, total, err := store.Query(context.Background(), StoreQuery{Skip: 10, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Query_SaturatedSkipIsPastEnd(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dreams"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows, total, err := store.Query(context.Background(), StoreQuery{Skip: math.MaxInt, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Query_NegativeSkipHasNoOffset(t *testing.T) {
	store, mock := newGormWithMock(t)
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dreams"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "dreams" ORDER BY submitted_at desc nulls last,\s*id asc LIMIT \$1\s*$`).
		WillReturnRows(rowsOf(pendingRow(uuid.New(), at)))

	rows, _, err := store.Query(context.Background(), StoreQuery{
		Sort:  Sort{Field: SortSubmittedAt, Desc: true},
		Skip:  -40,
		Limit: 20,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_CountByStatus(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectQuery(`select status, count\(\*\) as count\s+from dreams\s+group by status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 4).
			AddRow("interpreted", 2).
			AddRow("archived", 1))

	c, err := store.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{Pending: 4, Interpreted: 2, Archived: 1, Total: 7}, c)
}

func TestGormStore_Update_Interprets(t *testing.T) {
	store, mock := newGormWithMock(t)
	id := uuid.New()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rowsOf(pendingRow(id, at)))
	mock.ExpectExec(`UPDATE "dreams" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	text := "Milk signifies knowledge and purity."
	by := "Kareem Fuad"
	now := at.Add(time.Hour)
	status := StatusInterpreted
	d, err := store.Update(context.Background(), id.String(), Patch{
		Interpretation: &text,
		InterpretedAt:  &now,
		InterpretedBy:  &by,
		Status:         &status,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInterpreted, d.Status)
	assert.Equal(t, text, *d.Interpretation)
	assert.Equal(t, at, d.SubmittedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Update_MutateSeesLockedRow(t *testing.T) {
	store, mock := newGormWithMock(t)
	id := uuid.New()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	row := pendingRow(id, at)
	row[11] = "{water}"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rowsOf(row))
	mock.ExpectExec(`UPDATE "dreams" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	d, err := store.Update(context.Background(), id.String(), Patch{Mutate: func(d *Dream) {
		d.Tags = MergeTags(d.Tags, []string{"Water", "sky"})
		d.IsPublic = !d.IsPublic
	}})
	require.NoError(t, err)
	assert.Equal(t, []string{"water", "sky"}, []string(d.Tags))
	assert.True(t, d.IsPublic)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Update_InvalidRollsBack(t *testing.T) {
	store, mock := newGormWithMock(t)
	id := uuid.New()
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rowsOf(pendingRow(id, at)))
	mock.ExpectRollback()

	// interpreted without interpretation text breaks the status invariant
	status := StatusInterpreted
	_, err := store.Update(context.Background(), id.String(), Patch{Status: &status})
	assert.True(t, IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Update_NotFound(t *testing.T) {
	store, mock := newGormWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "dreams" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(dreamColumns))
	mock.ExpectRollback()

	public := true
	_, err := store.Update(context.Background(), uuid.NewString(), Patch{IsPublic: &public})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "submitted_at desc nulls last", orderClause(Sort{Field: SortSubmittedAt, Desc: true}))
	assert.Equal(t, "interpreted_at asc nulls first", orderClause(Sort{Field: SortInterpretedAt}))
	assert.Equal(t, "submitted_at asc nulls first", orderClause(Sort{Field: "bogus"}))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
}
