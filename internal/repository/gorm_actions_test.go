package repository

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soundrift/soundrift-moderation/internal/models"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	silent := logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{LogLevel: logger.Silent},
	)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{Logger: silent})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormActions_MarkRevoked_FirstWins(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormActions(db)

	actionID := uuid.New()
	revokedBy := uuid.New()
	revokedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "moderation_actions" SET (.+) WHERE id = \$\d+ AND revoked_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.MarkRevoked(actionID, revokedAt, revokedBy, []byte(`{}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormActions_MarkRevoked_AlreadyRevoked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormActions(db)

	// Zero rows touched means the IS NULL guard filtered the row out.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "moderation_actions" SET (.+) WHERE id = \$\d+ AND revoked_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.MarkRevoked(uuid.New(), time.Now(), uuid.New(), []byte(`{}`))
	assert.ErrorIs(t, err, ErrActionRevoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormActions_UpdateFields_GuardsRevoked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormActions(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "moderation_actions" SET (.+) WHERE id = \$\d+ AND revoked_at IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateFields(uuid.New(), map[string]any{"reason": "updated"})
	assert.ErrorIs(t, err, ErrActionRevoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormActions_SetNotificationSent_GuardsRevoked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormActions(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "moderation_actions" SET "notification_sent"=\$1 WHERE id = \$2 AND revoked_at IS NULL`).
		WithArgs(true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SetNotificationSent(uuid.New())
	assert.ErrorIs(t, err, ErrActionRevoked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormActions_ByTargetUser_OrdersAscending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormActions(db)

	userID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "moderation_actions" WHERE target_user_id = \$1 ORDER BY created_at ASC`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "target_user_id", "action_type", "reason"}).
			AddRow(first, userID, string(models.ActionUserWarned), "first").
			AddRow(second, userID, string(models.ActionUserSuspended), "second"))

	actions, err := repo.ByTargetUser(userID)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, first, actions[0].ID)
	assert.Equal(t, second, actions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
