//go:build integration
// +build integration

package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dib506676/fast-api/internal/config"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// setupPostgres starts a throwaway postgres and returns a migrated connection.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("blog"),
		postgres.WithUsername("blog"),
		postgres.WithPassword("blog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := repositories.Connect(ctx, config.Config{DB_URL: dsn, Environment: "test"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repositories.Close(db) })

	require.NoError(t, repositories.Migrate(db))
	// idempotent
	require.NoError(t, repositories.Migrate(db))
	return db
}

func TestPostgresConstraints(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	hash := "x"
	owner := &models.User{Email: "a@x.com", FullName: "A", HashedPassword: &hash, AuthProvider: models.AuthProviderEmail, IsActive: true}
	require.NoError(t, db.WithContext(ctx).Create(owner).Error)

	t.Run("unique email", func(t *testing.T) {
		dup := &models.User{Email: "a@x.com", FullName: "B", AuthProvider: models.AuthProviderEmail, IsActive: true}
		err := db.WithContext(ctx).Create(dup).Error
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
	})

	t.Run("unique google id allows many nulls", func(t *testing.T) {
		for _, email := range []string{"n1@x.com", "n2@x.com"} {
			u := &models.User{Email: email, AuthProvider: models.AuthProviderEmail, IsActive: true}
			require.NoError(t, db.WithContext(ctx).Create(u).Error)
		}
		gid := "g-1"
		require.NoError(t, db.Create(&models.User{Email: "g1@x.com", GoogleID: &gid, AuthProvider: models.AuthProviderGoogle, IsActive: true}).Error)
		err := db.Create(&models.User{Email: "g2@x.com", GoogleID: &gid, AuthProvider: models.AuthProviderGoogle, IsActive: true}).Error
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
	})

	t.Run("blog foreign key", func(t *testing.T) {
		err := db.WithContext(ctx).Omit("Creator", "Comments").Create(&models.Blog{Title: "t", Body: "b", CreatorID: 999999}).Error
		assert.Error(t, err)
	})

	t.Run("comment rows cascade with their blog", func(t *testing.T) {
		blog := &models.Blog{Title: "t", Body: "b", Published: true, CreatorID: owner.ID}
		require.NoError(t, db.Omit("Creator", "Comments").Create(blog).Error)
		comment := &models.Comment{Content: "c", BlogID: blog.ID, AuthorID: owner.ID}
		require.NoError(t, db.Omit("Author").Create(comment).Error)

		// delete the blog row directly; the FK must take the comment with it
		require.NoError(t, db.Exec("DELETE FROM blogs WHERE id = ?", blog.ID).Error)

		var count int64
		require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", comment.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
