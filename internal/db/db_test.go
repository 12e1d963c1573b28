package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vikasavnish/carecoord/internal/config"
	"github.com/vikasavnish/carecoord/internal/models"
)

func TestPrepareSeedsOnce(t *testing.T) {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	cfg := config.DatabaseConfig{AdminEmail: "root@example.com", AdminPassword: "s3cret"}

	require.NoError(t, Prepare(database, cfg))
	require.NoError(t, Prepare(database, cfg))

	var admins []models.User
	require.NoError(t, database.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root@example.com", admins[0].Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].HashedPassword), []byte("s3cret")))

	var services int64
	require.NoError(t, database.Model(&models.CareService{}).Count(&services).Error)
	assert.Equal(t, int64(len(DefaultServices)), services)
}
