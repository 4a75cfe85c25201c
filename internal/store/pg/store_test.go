package pg

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/dropDatabas3/blogweb/internal/domain/repository"
	migrations "github.com/dropDatabas3/blogweb/migrations/postgres"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewWithConn(mock)
}

func ptr[T any](v T) *T { return &v }

var userCols = []string{"id", "username", "email", "password", "enabled", "account_not_expired", "account_not_locked", "credential_not_expired"}

func TestUsers_FindByUsername_LoadsRolesAndPermissions(t *testing.T) {
	mock, s := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, username`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(int64(1), "alice", "", "$2a$10$hash", true, true, true, true))
	mock.ExpectQuery(`FROM user_roles ur`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "id", "name"}).
			AddRow(int64(2), "ADMIN", ptr(int64(10)), ptr("READ")).
			AddRow(int64(2), "ADMIN", ptr(int64(11)), ptr("DELETE")).
			AddRow(int64(3), "USER", ptr(int64(10)), ptr("READ")))

	u, err := s.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Len(t, u.Roles, 2)
	require.Equal(t, "ADMIN", u.Roles[0].Name)
	require.Len(t, u.Roles[0].Permissions, 2)
	require.Equal(t, "USER", u.Roles[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_FindByEmail_EmptyNeverQueries(t *testing.T) {
	mock, s := newMock(t)
	_, err := s.Users().FindByEmail(context.Background(), "")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissions_Create_UniqueViolation(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectQuery(`INSERT INTO permissions`).
		WithArgs("READ").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "permissions_name_key"})

	err := s.Permissions().Create(context.Background(), &repository.Permission{Name: "READ"})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissions_Delete_NotFound(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectExec(`DELETE FROM permissions WHERE id`).
		WithArgs(int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.Permissions().Delete(context.Background(), 9)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_CommitsCascade(t *testing.T) {
	mock, s := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_roles WHERE role_id`).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(`DELETE FROM roles WHERE id`).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	var detached int64
	err := s.WithTransaction(ctx, func(tx repository.DataAccess) error {
		n, err := tx.Roles().DetachFromUsers(ctx, 4)
		if err != nil {
			return err
		}
		detached = n
		return tx.Roles().Delete(ctx, 4)
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, detached)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	mock, s := newMock(t)
	ctx := context.Background()
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM role_permissions WHERE permission_id`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`DELETE FROM permissions WHERE id`).
		WithArgs(int64(5)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := s.WithTransaction(ctx, func(tx repository.DataAccess) error {
		if _, err := tx.Permissions().DetachFromRoles(ctx, 5); err != nil {
			return err
		}
		return tx.Permissions().Delete(ctx, 5)
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoles_ReplacePermissions_UnknownRole(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := s.Roles().ReplacePermissions(context.Background(), 7, []int64{1, 2})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_AppliesOnlyPending(t *testing.T) {
	mock, s := newMock(t)
	fsys := fstest.MapFS{
		"0001_init.sql": {Data: []byte("CREATE TABLE one_t (id INT);")},
		"0002_two.sql":  {Data: []byte("CREATE TABLE two_t (id INT);")},
		"README.md":     {Data: []byte("ignored")},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).
		WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS _migrations`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectQuery(`SELECT version FROM _migrations`).
		WillReturnRows(pgxmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectExec(`CREATE TABLE two_t`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(`INSERT INTO _migrations`).
		WithArgs(2, "two").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	res, err := NewMigrator(fsys, ".").Run(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, []int{2}, res.Applied)
	require.Equal(t, []int{1}, res.Skipped)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_EmbeddedSchemaParses(t *testing.T) {
	migs, err := NewMigrator(migrations.PostgresFS, migrations.PostgresDir).ParseMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	require.Equal(t, 1, migs[0].Version)
	require.Equal(t, "init", migs[0].Name)
	require.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS user_roles")
}
