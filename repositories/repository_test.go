package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/staffhub-api/common"
	"github.com/staffhub-api/database"
	"github.com/staffhub-api/logger"
	"github.com/staffhub-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), logger.Discard())
	require.NoError(t, err)
	return db, mock
}

func TestRepository_FindByID_SkipsDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "departments" WHERE \(is_deleted IS NULL OR is_deleted = \$1\) AND id = \$2`).
		WithArgs(false, "d1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_deleted"}).AddRow("d1", "Platform", false))

	d, err := repo.FindByID(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "Platform", d.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepartmentRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "departments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByIDs_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	projects, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, projects)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MarkDeleted(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository[models.Customer](db)

	mock.ExpectExec(`UPDATE "customers" SET .*"deleted_by"=.*"is_deleted"=.* WHERE \(is_deleted IS NULL OR is_deleted = \$\d+\) AND id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkDeleted(context.Background(), "c1", "admin"))

	// A second delete matches no live row
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.MarkDeleted(context.Background(), "c1", "admin")
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ExistAll(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCatalogRepository[models.Technology](db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "technologies" WHERE .*id IN \(\$2,\$3\)`).
		WithArgs(false, "t1", "t2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.ExistAll(context.Background(), []string{"t1", "t2", "t1"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.ExistAll(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationRepository_CustomerReferenced(t *testing.T) {
	db, mock := newMockDB(t)
	relations := NewRelationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects" WHERE .*customer_id = \$2`).
		WithArgs(false, "c1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	linked, err := relations.CustomerReferenced(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, linked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_CommitsGuardAndDelete(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	relations := NewRelationRepository(db)
	repo := NewCatalogRepository[models.Status](db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "statuses" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		linked, err := relations.StatusReferenced(ctx, "s1")
		if err != nil || linked {
			return errors.New("linked")
		}
		return repo.MarkDeleted(ctx, "s1", "admin")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tx := NewTransactor(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
