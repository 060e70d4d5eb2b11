package auth

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"max.ks1230/earnings-tracker/internal/entity/user"
	"max.ks1230/earnings-tracker/internal/logger"
	"max.ks1230/earnings-tracker/internal/model/customerr"
)

const (
	minPasswordLen  = 8
	defaultTokenTTL = time.Hour
)

type config interface {
	SigningKey() []byte
	Issuer() string
	Audience() string
	TokenTTL() time.Duration
}

type userStorage interface {
	CreateUser(ctx context.Context, rec user.Record) (user.Record, error)
	GetUserByID(ctx context.Context, id int64) (user.Record, error)
	GetUserByEmail(ctx context.Context, email string) (user.Record, error)
	UpdateUser(ctx context.Context, rec user.Record) error
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Profession  string
}

type ProfileInput struct {
	Name        string
	PhoneNumber string
	Profession  string
}

type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Service struct {
	storage userStorage
	config  config
	policy  *bluemonday.Policy
	cost    int
	now     func() time.Time
}

func NewService(storage userStorage, config config) *Service {
	return &Service{
		storage: storage,
		config:  config,
		policy:  bluemonday.StrictPolicy(),
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.Record, Token, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return user.Record{}, Token{}, err
	}
	name := s.clean(in.Name)
	if name == "" {
		return user.Record{}, Token{}, customerr.Invalid("name", "must not be empty")
	}
	if len(in.Password) < minPasswordLen {
		return user.Record{}, Token{}, customerr.Invalid("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.Record{}, Token{}, errors.Wrap(err, "hash password")
	}

	rec, err := s.storage.CreateUser(ctx, user.Record{
		Name:         name,
		Email:        email,
		PhoneNumber:  s.clean(in.PhoneNumber),
		Profession:   s.clean(in.Profession),
		PasswordHash: string(hash),
		Role:         user.DailyEarner,
	})
	if err != nil {
		return user.Record{}, Token{}, errors.Wrap(err, "register")
	}
	logger.Info("user registered", zap.Int64("userID", rec.ID))

	token, err := s.issue(rec.ID)
	return rec, token, err
}

func (s *Service) Login(ctx context.Context, email, password string) (user.Record, Token, error) {
	rec, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, customerr.ErrNotFound) {
		return user.Record{}, Token{}, errors.Wrap(customerr.ErrUnauthorized, "login")
	}
	if err != nil {
		return user.Record{}, Token{}, errors.Wrap(err, "login")
	}
	if !rec.IsActive || bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return user.Record{}, Token{}, errors.Wrap(customerr.ErrUnauthorized, "login")
	}

	if err = s.storage.TouchLastLogin(ctx, rec.ID, s.now()); err != nil {
		logger.Warn("cannot update last login", zap.Int64("userID", rec.ID), zap.Error(err))
	}
	token, err := s.issue(rec.ID)
	return rec, token, err
}

func (s *Service) Me(ctx context.Context, userID int64) (user.Record, error) {
	rec, err := s.storage.GetUserByID(ctx, userID)
	return rec, errors.Wrap(err, "me")
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (user.Record, error) {
	rec, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return user.Record{}, errors.Wrap(err, "update profile")
	}
	if name := s.clean(in.Name); name != "" {
		rec.Name = name
	}
	rec.PhoneNumber = s.clean(in.PhoneNumber)
	rec.Profession = s.clean(in.Profession)
	if err = s.storage.UpdateUser(ctx, rec); err != nil {
		return user.Record{}, errors.Wrap(err, "update profile")
	}
	return rec, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	rec, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "change password")
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(current)) != nil {
		return errors.Wrap(customerr.ErrUnauthorized, "change password")
	}
	if len(next) < minPasswordLen {
		return customerr.Invalid("newPassword", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return errors.Wrap(s.storage.UpdatePassword(ctx, userID, string(hash)), "change password")
}

// ParseToken validates a bearer token and returns the user ID it was issued for.
func (s *Service) ParseToken(raw string) (int64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if iss := s.config.Issuer(); iss != "" {
		opts = append(opts, jwt.WithIssuer(iss))
	}
	if aud := s.config.Audience(); aud != "" {
		opts = append(opts, jwt.WithAudience(aud))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.config.SigningKey(), nil
	}, opts...)
	if err != nil {
		return 0, errors.Wrap(customerr.ErrUnauthorized, err.Error())
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Wrap(customerr.ErrUnauthorized, "bad subject")
	}
	return userID, nil
}

func (s *Service) issue(userID int64) (Token, error) {
	ttl := s.config.TokenTTL()
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := s.now()
	expires := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    s.config.Issuer(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	if aud := s.config.Audience(); aud != "" {
		claims.Audience = jwt.ClaimStrings{aud}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.SigningKey())
	if err != nil {
		return Token{}, errors.Wrap(err, "sign token")
	}
	return Token{AccessToken: signed, ExpiresAt: expires}, nil
}

func (s *Service) clean(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Address != strings.TrimSpace(raw) {
		return "", customerr.Invalid("email", "not a valid address")
	}
	return strings.ToLower(addr.Address), nil
}
