package auth

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	appconfig "max.ks1230/earnings-tracker/internal/config"
	"max.ks1230/earnings-tracker/internal/model/customerr"
	"max.ks1230/earnings-tracker/internal/model/storage"
)

func newTestService() *Service {
	s := NewService(storage.NewInMemStorage(), &appconfig.AuthConfig{
		Secret:        "test-secret",
		TokenIssuer:   "earnings-tracker",
		TokenAudience: "earnings-tracker-api",
		TTLMinutes:    60,
	})
	s.cost = bcrypt.MinCost
	return s
}

func register(t *testing.T, s *Service) int64 {
	t.Helper()
	rec, _, err := s.Register(context.Background(), RegisterInput{
		Name:     "Ravi",
		Email:    "Ravi@Example.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)
	return rec.ID
}

func Test_Register_ShouldIssueTokenForNewUser(t *testing.T) {
	s := newTestService()

	rec, token, err := s.Register(context.Background(), RegisterInput{
		Name:       "<b>Ravi</b>",
		Email:      "ravi@example.com",
		Password:   "secret-pass",
		Profession: "Driver",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ravi", rec.Name)
	assert.NotEqual(t, "secret-pass", rec.PasswordHash)

	userID, err := s.ParseToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, userID)
}

func Test_Register_ShouldRejectDuplicateEmail(t *testing.T) {
	s := newTestService()
	register(t, s)

	_, _, err := s.Register(context.Background(), RegisterInput{
		Name:     "Other",
		Email:    "ravi@example.com",
		Password: "another-pass",
	})

	assert.True(t, errors.Is(err, customerr.ErrConflict))
}

func Test_Register_ShouldValidateInput(t *testing.T) {
	s := newTestService()
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"bad email", RegisterInput{Name: "A", Email: "nope", Password: "long-enough"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.io", Password: "short"}},
		{"empty name", RegisterInput{Name: "  ", Email: "a@b.io", Password: "long-enough"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Register(context.Background(), tt.input)
			assert.True(t, customerr.IsValidation(err))
		})
	}
}

func Test_Login_ShouldCheckPassword(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	id := register(t, s)

	_, _, err := s.Login(ctx, "ravi@example.com", "wrong-pass")
	assert.True(t, errors.Is(err, customerr.ErrUnauthorized))

	_, _, err = s.Login(ctx, "nobody@example.com", "secret-pass")
	assert.True(t, errors.Is(err, customerr.ErrUnauthorized))

	rec, token, err := s.Login(ctx, "ravi@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.NotEmpty(t, token.AccessToken)

	me, err := s.Me(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, me.LastLoginAt)
}

func Test_ParseToken_ShouldRejectExpiredAndForeignTokens(t *testing.T) {
	s := newTestService()
	issuedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issuedAt }
	token, err := s.issue(42)
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = s.ParseToken(token.AccessToken)
	assert.True(t, errors.Is(err, customerr.ErrUnauthorized))

	other := NewService(storage.NewInMemStorage(), &appconfig.AuthConfig{Secret: "other", TTLMinutes: 60})
	other.now = func() time.Time { return issuedAt }
	s.now = other.now
	foreign, err := other.issue(42)
	require.NoError(t, err)
	_, err = s.ParseToken(foreign.AccessToken)
	assert.True(t, errors.Is(err, customerr.ErrUnauthorized))
}

func Test_ChangePassword_ShouldRequireCurrentPassword(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	id := register(t, s)

	err := s.ChangePassword(ctx, id, "wrong-pass", "brand-new-pass")
	assert.True(t, errors.Is(err, customerr.ErrUnauthorized))

	require.NoError(t, s.ChangePassword(ctx, id, "secret-pass", "brand-new-pass"))
	_, _, err = s.Login(ctx, "ravi@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func Test_UpdateProfile_ShouldKeepNameWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	id := register(t, s)

	rec, err := s.UpdateProfile(ctx, id, ProfileInput{PhoneNumber: "+91 98765 43210", Profession: "Cook"})

	require.NoError(t, err)
	assert.Equal(t, "Ravi", rec.Name)
	assert.Equal(t, "Cook", rec.Profession)
}
