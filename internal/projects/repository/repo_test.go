package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stepwise-app/stepwise-backend/internal/projects/domain"
)

func setupProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewProjectRepository(db)
	return repo, mock, db
}

func projectRows(id, title, createdBy string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "created_by", "created_at", "updated_at"}).
		AddRow(id, title, createdBy, time.Now(), time.Now())
}

func TestProjectRepository_Create(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("inserts project and membership in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs("Roadmap", "u1").
			WillReturnRows(projectRows("p1", "Roadmap", "u1"))
		mock.ExpectExec(`INSERT INTO project_users`).
			WithArgs("p1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		p, err := repo.Create(context.Background(), "Roadmap", "u1")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, "Roadmap", p.Title)
		assert.Equal(t, "u1", p.CreatedBy)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := repo.Create(context.Background(), "", "u1")
		assert.Error(t, err)
	})
}

func TestProjectRepository_ListByMember(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("returns member projects", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "created_by", "created_at", "updated_at"}).
			AddRow("p2", "Second", "u1", time.Now(), time.Now()).
			AddRow("p1", "First", "u2", time.Now(), time.Now())

		mock.ExpectQuery(`FROM projects p`).
			WithArgs("u1").
			WillReturnRows(rows)

		projects, err := repo.ListByMember(context.Background(), "u1")
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "p2", projects[0].ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		mock.ExpectQuery(`FROM projects p`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_by", "created_at", "updated_at"}))

		projects, err := repo.ListByMember(context.Background(), "nobody")
		require.NoError(t, err)
		assert.Empty(t, projects)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_GetByID(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM projects`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Update(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	title := "Roadmap v2"

	t.Run("applies membership-scoped update", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects`).
			WithArgs("p1", "u1", title).
			WillReturnRows(projectRows("p1", "Roadmap v2", "u1"))

		p, err := repo.Update(context.Background(), "p1", "u1", domain.Update{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Roadmap v2", p.Title)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no matching row means not found", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE projects`).
			WithArgs("p1", "stranger", title).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.Update(context.Background(), "p1", "stranger", domain.Update{Title: &title})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_Delete(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	t.Run("reports affected rows", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM projects`).
			WithArgs("p1", "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.Delete(context.Background(), "p1", "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-member deletes nothing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM projects`).
			WithArgs("p1", "stranger").
			WillReturnResult(sqlmock.NewResult(0, 0))

		affected, err := repo.Delete(context.Background(), "p1", "stranger")
		require.NoError(t, err)
		assert.Zero(t, affected)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepository_IsMember(t *testing.T) {
	repo, mock, db := setupProjectRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("p1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	member, err := repo.IsMember(context.Background(), "p1", "u1")
	require.NoError(t, err)
	assert.True(t, member)

	require.NoError(t, mock.ExpectationsWereMet())
}
