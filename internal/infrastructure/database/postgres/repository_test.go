package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"campus-lost-found/internal/domain/report"
	"campus-lost-found/internal/domain/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := NewDBFromConn(conn)
	require.NoError(t, err)

	return db, mock
}

var reportColumns = []string{"id", "title", "content", "status", "location", "image_url", "image_key", "number", "owner_id", "created_at", "updated_at"}

func TestReportRepository_DeleteOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectExec(`DELETE FROM "reports" WHERE id = \$1 AND owner_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteOwned(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_DeleteOwned_NotOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectExec(`DELETE FROM "reports" WHERE id = \$1 AND owner_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteOwned(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, report.ErrReportNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_GetOwned_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "reports" WHERE id = \$1 AND owner_id = \$2`).
		WillReturnRows(sqlmock.NewRows(reportColumns))

	_, err := repo.GetOwned(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestReportRepository_UpdateOwned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	reportID, ownerID := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`UPDATE "reports" SET .* WHERE id = \$\d+ AND owner_id = \$\d+ RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(reportColumns).AddRow(
			reportID.String(), "Blue Backpack", "Picked up at the desk", "Found", "Library 2F",
			nil, nil, "9999999999", ownerID.String(), now, now,
		))

	content := "Picked up at the desk"
	status := report.StatusFound
	got, err := repo.UpdateOwned(context.Background(), reportID, ownerID, report.Patch{Content: &content, Status: &status})
	require.NoError(t, err)

	assert.Equal(t, reportID, got.ID)
	assert.Equal(t, report.StatusFound, got.Status)
	assert.Equal(t, content, got.Content)
	assert.Nil(t, got.ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_UpdateOwned_NoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(`UPDATE "reports" SET .* RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(reportColumns))

	content := "x"
	_, err := repo.UpdateOwned(context.Background(), uuid.New(), uuid.New(), report.Patch{Content: &content})
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}

func TestReportRepository_ListAllWithOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReportRepository(db)

	reportID, ownerID := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "reports" ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(reportColumns).AddRow(
			reportID.String(), "Blue Backpack", "Left in library", "Lost", "Library 2F",
			nil, nil, "9999999999", ownerID.String(), now, now,
		))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "username", "name", "number"}).
			AddRow(ownerID.String(), "a@x.com", "alice", "Alice", "9999999999"))

	got, err := repo.ListAllWithOwner(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Blue Backpack", got[0].Title)
	require.NotNil(t, got[0].Owner)
	assert.Equal(t, "Alice", got[0].Owner.Name)
	assert.Equal(t, "a@x.com", got[0].Owner.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"})

	err := repo.Create(context.Background(), &user.User{Email: "a@x.com", Username: "alice"})
	assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
	assert.Error(t, err)
}

func TestUserRepository_ListEmails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT "email" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@x.com").AddRow("b@x.com"))

	emails, err := repo.ListEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, emails)
}

func TestUserRepository_UpdateRefreshToken_Clear(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users" SET "refresh_token"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs(nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRefreshToken(context.Background(), uuid.New(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateRefreshToken_UnknownUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))

	token := "r1"
	err := repo.UpdateRefreshToken(context.Background(), uuid.New(), &token)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
