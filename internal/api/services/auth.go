package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns user accounts: registration, credential checks and linking
// Google identities.
type AuthService struct {
	db         *gorm.DB
	verifier   IdentityVerifier
	bcryptCost int
}

func NewAuthService(db *gorm.DB, verifier IdentityVerifier) *AuthService {
	return &AuthService{db: db, verifier: verifier, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost lowers the hashing cost; tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Authenticate checks an email/password pair. Accounts created through Google
// that never set a password get ErrWrongProvider so the caller can point the
// user at Google sign-in.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil && user.AuthProvider == models.AuthProviderGoogle && !user.HasPassword() {
		return nil, apperr.ErrWrongProvider
	}
	if user == nil || !user.HasPassword() {
		return nil, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.New(apperr.CodeInvalid, "password must be at most 72 bytes")
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "hash password")
	}
	hashed := string(hash)

	user := &models.User{
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		HashedPassword: &hashed,
		AuthProvider:   models.AuthProviderEmail,
		IsVerified:     false,
		IsActive:       true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return apperr.Wrap(err, apperr.CodeInternal, "check email")
		}
		if count > 0 {
			return apperr.ErrEmailTaken
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.ErrEmailTaken
			}
			return apperr.Wrap(err, apperr.CodeInternal, "create user")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findOne(s.db.WithContext(ctx), "id = ?", id)
}

func (s *AuthService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(s.db.WithContext(ctx), "email = ?", models.NormalizeEmail(email))
}

func (s *AuthService) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	if googleID == "" {
		return nil, nil
	}
	return s.findOne(s.db.WithContext(ctx), "google_id = ?", googleID)
}

// findOne returns (nil, nil) when no row matches.
func (s *AuthService) findOne(db *gorm.DB, query string, args ...any) (*models.User, error) {
	var u models.User
	if err := db.Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "load user")
	}
	return &u, nil
}

// VerifyExternalIdentity never fails; an untrusted token yields nil.
func (s *AuthService) VerifyExternalIdentity(ctx context.Context, idToken string) *IdentityClaims {
	if s.verifier == nil {
		return nil
	}
	return s.verifier.Verify(ctx, idToken)
}

func (s *AuthService) CreateFromExternalIdentity(ctx context.Context, claims *IdentityClaims) (*models.User, error) {
	email := models.NormalizeEmail(claims.Email)
	googleID := claims.Subject
	user := &models.User{
		Email:        email,
		FullName:     claims.Name,
		GoogleID:     &googleID,
		GoogleEmail:  &email,
		AuthProvider: models.AuthProviderGoogle,
		IsVerified:   true,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, apperr.Wrap(err, apperr.CodeInternal, "create user")
	}
	return user, nil
}

// LinkExternalIdentity attaches a Google identity to an existing account. The
// password hash is left as is, so the account keeps working with both methods.
func (s *AuthService) LinkExternalIdentity(ctx context.Context, user *models.User, claims *IdentityClaims) (*models.User, error) {
	googleID := claims.Subject
	googleEmail := models.NormalizeEmail(claims.Email)
	cols := map[string]any{
		"google_id":    googleID,
		"google_email": googleEmail,
	}
	if user.FullName == "" && claims.Name != "" {
		cols["full_name"] = claims.Name
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(cols).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "link google account")
	}
	user.GoogleID = &googleID
	user.GoogleEmail = &googleEmail
	if name, ok := cols["full_name"].(string); ok {
		user.FullName = name
	}
	return user, nil
}

// ResolveExternalIdentity finds or creates the account behind verified
// claims: by Google id first, then by email (linking it), else a new account.
// An existing account is only linked when Google vouches for the email.
func (s *AuthService) ResolveExternalIdentity(ctx context.Context, claims *IdentityClaims) (*models.User, error) {
	user, err := s.GetByGoogleID(ctx, claims.Subject)
	if err != nil || user != nil {
		return user, err
	}
	user, err = s.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if !claims.EmailVerified {
			return nil, apperr.New(apperr.CodeUpstream, "Google account email is not verified")
		}
		return s.LinkExternalIdentity(ctx, user, claims)
	}
	return s.CreateFromExternalIdentity(ctx, claims)
}

func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, patch models.UserPatch) (*models.User, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(cols).Error; err != nil {
		return nil, apperr.Wrap(err, apperr.CodeInternal, "update profile")
	}
	patch.Apply(user)
	return user, nil
}
