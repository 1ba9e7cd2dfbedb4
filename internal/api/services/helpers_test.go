package services

import (
	"context"
	"testing"

	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	auth     *AuthService
	blogs    *BlogService
	comments *CommentService
}

type stubVerifier map[string]IdentityClaims

func (s stubVerifier) Verify(_ context.Context, token string) *IdentityClaims {
	c, ok := s[token]
	if !ok {
		return nil
	}
	return &c
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		auth:     NewAuthService(db, stubVerifier{}).WithBcryptCost(bcrypt.MinCost),
		blogs:    NewBlogService(db),
		comments: NewCommentService(db),
	}
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), email, "password1", "User "+email)
	require.NoError(t, err)
	return u
}

func (f *fixture) blog(t *testing.T, owner *models.User, title string, published bool) *models.Blog {
	t.Helper()
	b, err := f.blogs.Create(context.Background(), models.BlogInput{Title: title, Body: "body of " + title, Published: &published}, owner.ID)
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }
