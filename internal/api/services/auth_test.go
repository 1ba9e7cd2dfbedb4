package services

import (
	"context"
	"testing"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.auth.Register(ctx, "  Ada@Example.COM ", "s3cret-pass", "Ada")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, models.AuthProviderEmail, u.AuthProvider)
	assert.False(t, u.IsVerified)
	assert.True(t, u.IsActive)

	var stored models.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	require.NotNil(t, stored.HashedPassword)
	assert.NotEqual(t, "s3cret-pass", *stored.HashedPassword)
	assert.NotContains(t, *stored.HashedPassword, "s3cret-pass")
}

func TestRegisterEmailTakenIgnoresCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "a@x.com")

	for _, email := range []string{"a@x.com", "A@X.COM", " a@x.com"} {
		_, err := f.auth.Register(ctx, email, "password1", "Other")
		assert.ErrorIs(t, err, apperr.ErrEmailTaken, email)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	f := newFixture(t)
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err := f.auth.Register(context.Background(), "a@x.com", string(long), "A")
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalid))
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered := f.user(t, "a@x.com")

	u, err := f.auth.Authenticate(ctx, "A@x.com ", "password1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	_, err = f.auth.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = f.auth.Authenticate(ctx, "nobody@x.com", "password1")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestAuthenticateGoogleOnlyAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.auth.CreateFromExternalIdentity(ctx, &IdentityClaims{Subject: "g-1", Email: "g@x.com", Name: "G"})
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, "g@x.com", "anything")
	assert.ErrorIs(t, err, apperr.ErrWrongProvider)
}

func TestLookups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.com")

	got, err := f.auth.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	got, err = f.auth.GetByEmail(ctx, "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	got, err = f.auth.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.auth.GetByGoogleID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = f.auth.GetByGoogleID(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateFromExternalIdentity(t *testing.T) {
	f := newFixture(t)
	u, err := f.auth.CreateFromExternalIdentity(context.Background(), &IdentityClaims{Subject: "g-1", Email: "G@X.com", Name: "Grace"})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	assert.Nil(t, stored.HashedPassword)
	assert.True(t, stored.IsVerified)
	assert.True(t, stored.IsActive)
	assert.Equal(t, models.AuthProviderGoogle, stored.AuthProvider)
	assert.Equal(t, "g@x.com", stored.Email)
	require.NotNil(t, stored.GoogleID)
	assert.Equal(t, "g-1", *stored.GoogleID)
	assert.Equal(t, "Grace", stored.FullName)
}

func TestLinkExternalIdentityKeepsPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.com")

	linked, err := f.auth.LinkExternalIdentity(ctx, a, &IdentityClaims{Subject: "g-7", Email: "a@x.com", Name: "Someone Else"})
	require.NoError(t, err)
	assert.Equal(t, "User a@x.com", linked.FullName, "existing name is kept")

	var stored models.User
	require.NoError(t, f.db.First(&stored, a.ID).Error)
	require.NotNil(t, stored.GoogleID)
	assert.Equal(t, "g-7", *stored.GoogleID)
	assert.Equal(t, models.AuthProviderEmail, stored.AuthProvider)

	// both sign-in methods keep working
	_, err = f.auth.Authenticate(ctx, "a@x.com", "password1")
	require.NoError(t, err)
	byGoogle, err := f.auth.GetByGoogleID(ctx, "g-7")
	require.NoError(t, err)
	assert.Equal(t, a.ID, byGoogle.ID)
}

func TestLinkExternalIdentityFillsEmptyName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, err := f.auth.Register(ctx, "n@x.com", "password1", "")
	require.NoError(t, err)

	linked, err := f.auth.LinkExternalIdentity(ctx, u, &IdentityClaims{Subject: "g-8", Email: "n@x.com", Name: "Named"})
	require.NoError(t, err)
	assert.Equal(t, "Named", linked.FullName)

	var stored models.User
	require.NoError(t, f.db.First(&stored, u.ID).Error)
	assert.Equal(t, "Named", stored.FullName)
}

func TestResolveExternalIdentity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := f.user(t, "e@x.com")

	// unknown google id, known email: link
	u, err := f.auth.ResolveExternalIdentity(ctx, &IdentityClaims{Subject: "g-e", Email: "E@x.com", EmailVerified: true})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)
	require.NotNil(t, u.GoogleID)

	// known google id: found directly even if the email differs
	u, err = f.auth.ResolveExternalIdentity(ctx, &IdentityClaims{Subject: "g-e", Email: "changed@x.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)

	// nothing known: create
	u, err = f.auth.ResolveExternalIdentity(ctx, &IdentityClaims{Subject: "g-new", Email: "new@x.com", Name: "New"})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, u.ID)
	assert.Equal(t, models.AuthProviderGoogle, u.AuthProvider)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestResolveExternalIdentityUnverifiedEmailDoesNotLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	victim := f.user(t, "victim@x.com")

	u, err := f.auth.ResolveExternalIdentity(ctx, &IdentityClaims{Subject: "attacker-sub", Email: "victim@x.com"})
	assert.Nil(t, u)
	assert.True(t, apperr.IsCode(err, apperr.CodeUpstream), "got %v", err)

	var stored models.User
	require.NoError(t, f.db.First(&stored, victim.ID).Error)
	assert.Nil(t, stored.GoogleID)
	linked, err := f.auth.GetByGoogleID(ctx, "attacker-sub")
	require.NoError(t, err)
	assert.Nil(t, linked)
}

func TestVerifyExternalIdentity(t *testing.T) {
	f := newFixture(t)
	f.auth.verifier = stubVerifier{"tok": {Subject: "g-1", Email: "a@x.com"}}

	assert.NotNil(t, f.auth.VerifyExternalIdentity(context.Background(), "tok"))
	assert.Nil(t, f.auth.VerifyExternalIdentity(context.Background(), "other"))

	f.auth.verifier = nil
	assert.Nil(t, f.auth.VerifyExternalIdentity(context.Background(), "tok"))
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a@x.com")

	u, err := f.auth.UpdateProfile(ctx, a, models.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, "User a@x.com", u.FullName)

	u, err = f.auth.UpdateProfile(ctx, a, models.UserPatch{FullName: ptr("Ada")})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.FullName)

	stored, err := f.auth.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FullName)
	assert.Equal(t, "a@x.com", stored.Email)
}
