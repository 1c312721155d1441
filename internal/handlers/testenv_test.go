package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/teamforge/teamforge-api/internal/constants"
	"github.com/teamforge/teamforge-api/internal/database"
	"github.com/teamforge/teamforge-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Team{},
		&models.Membership{},
		&models.Invitation{},
		&models.Feature{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func testContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestOrganization(t *testing.T, db *gorm.DB, name string) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name:                  name,
		InvitationExpiryHours: constants.DefaultInvitationExpiryHours,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func createTestTeam(t *testing.T, db *gorm.DB, orgID uint64, name string) *models.Team {
	t.Helper()

	team := &models.Team{
		OrganizationID: orgID,
		Name:           name,
	}
	require.NoError(t, db.Create(team).Error)
	return team
}

func createTestFeature(t *testing.T, db *gorm.DB, code string, active bool) *models.Feature {
	t.Helper()

	feature := &models.Feature{
		Code:     code,
		Name:     code,
		IsActive: active,
	}
	require.NoError(t, db.Create(feature).Error)
	return feature
}

func createTestPlan(t *testing.T, db *gorm.DB, name string, features ...models.Feature) *models.SubscriptionPlan {
	t.Helper()

	plan := &models.SubscriptionPlan{
		Name:     name,
		IsActive: true,
		Features: features,
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}
