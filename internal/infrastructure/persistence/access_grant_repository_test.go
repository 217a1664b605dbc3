package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vivenda/backend/internal/domain/shared"
	"github.com/vivenda/backend/internal/domain/vault"
)

func accessGrantColumns() []string {
	return []string{
		"id", "created_at", "updated_at", "version",
		"relationship_type", "professional_id", "user_id", "property_id", "is_active",
	}
}

func TestGormAccessGrantRepository_FindActive(t *testing.T) {
	t.Run("filters by property", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormAccessGrantRepository(gormDB)

		propertyID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(accessGrantColumns()).
			AddRow(uuid.New(), now, now, 1, "vault_access", uuid.New(), uuid.New(), propertyID, true)

		mock.ExpectQuery(`SELECT \* FROM "access_grants" WHERE is_active = \$1 AND property_id = \$2 ORDER BY created_at DESC`).
			WithArgs(true, propertyID).
			WillReturnRows(rows)

		grants, err := repo.FindActive(context.Background(), vault.ActiveGrantFilter{PropertyID: &propertyID})

		assert.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, vault.RelationshipVaultAccess, grants[0].RelationshipType)
		assert.True(t, grants[0].IsActive)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("combines filter fields with AND", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormAccessGrantRepository(gormDB)

		professionalID := uuid.New()
		propertyID := uuid.New()
		relType := vault.RelationshipVaultAccess

		mock.ExpectQuery(`SELECT \* FROM "access_grants" WHERE is_active = \$1 AND professional_id = \$2 AND property_id = \$3 AND relationship_type = \$4 ORDER BY created_at DESC`).
			WithArgs(true, professionalID, propertyID, relType).
			WillReturnRows(sqlmock.NewRows(accessGrantColumns()))

		grants, err := repo.FindActive(context.Background(), vault.ActiveGrantFilter{
			ProfessionalID:   &professionalID,
			PropertyID:       &propertyID,
			RelationshipType: &relType,
		})

		assert.NoError(t, err)
		assert.Empty(t, grants)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccessGrantRepository_FindActiveForScope(t *testing.T) {
	t.Run("matches property-scoped grant", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormAccessGrantRepository(gormDB)

		professionalID := uuid.New()
		userID := uuid.New()
		propertyID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows(accessGrantColumns()).
			AddRow(uuid.New(), now, now, 1, "vault_access", professionalID, userID, propertyID, true)

		mock.ExpectQuery(`SELECT \* FROM "access_grants" WHERE \(is_active = \$1 AND professional_id = \$2 AND user_id = \$3 AND relationship_type = \$4\) AND property_id = \$5 ORDER BY .* LIMIT .*`).
			WithArgs(true, professionalID, userID, vault.RelationshipVaultAccess, propertyID, 1).
			WillReturnRows(rows)

		grant, err := repo.FindActiveForScope(context.Background(), professionalID, userID, &propertyID, vault.RelationshipVaultAccess)

		assert.NoError(t, err)
		require.NotNil(t, grant)
		assert.Equal(t, professionalID, grant.ProfessionalID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("uses IS NULL for unscoped grants", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormAccessGrantRepository(gormDB)

		professionalID := uuid.New()
		userID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "access_grants" WHERE \(is_active = \$1 AND professional_id = \$2 AND user_id = \$3 AND relationship_type = \$4\) AND property_id IS NULL ORDER BY .* LIMIT .*`).
			WithArgs(true, professionalID, userID, vault.RelationshipContactAccepted, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		grant, err := repo.FindActiveForScope(context.Background(), professionalID, userID, nil, vault.RelationshipContactAccepted)

		assert.Nil(t, grant)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAccessGrantRepository_Save(t *testing.T) {
	t.Run("maps duplicate key to ErrAlreadyExists", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormAccessGrantRepository(gormDB)

		propertyID := uuid.New()
		grant, err := vault.NewAccessGrant(vault.RelationshipVaultAccess, uuid.New(), uuid.New(), &propertyID)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "access_grants" SET .*`).
			WillReturnError(gorm.ErrDuplicatedKey)

		err = repo.Save(context.Background(), grant)

		assert.Equal(t, shared.ErrAlreadyExists, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
