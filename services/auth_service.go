package services

import (
	"context"
	"foodorder_server/lib"
	"foodorder_server/structs"
	"foodorder_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.AuthConfig
	users  UserStore
	now    func() time.Time
}

func NewAuthService(cfg *structs.AuthConfig, logger *gecho.Logger, users UserStore) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		users:  users,
		now:    time.Now,
	}
}

// Login checks phone and password and returns the user. Accounts created over
// WhatsApp have no password hash and accept the configured default password.
func (as *AuthService) Login(ctx context.Context, req *structs.LoginRequest) (*tables.User, error) {
	startTime := time.Now()
	phone := lib.NormalizePhone(req.Phone)

	user, err := as.users.FindUserByPhone(ctx, phone)
	if err != nil {
		as.logger.Error("Unexpected database error during login",
			gecho.Field("error", err),
			gecho.Field("phone", phone),
		)
		// Never leak whether the account exists
		return nil, lib.ErrInvalidCredentials
	}
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("phone", phone))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := as.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.Id),
		)
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	as.logger.Debug("User logged in successfully",
		gecho.Field("user_id", user.Id),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)
	return user, nil
}

// VerifyPassword compares against the argon2 hash, or against the default
// messaging password when the account has none.
func (as *AuthService) VerifyPassword(password string, hash *string) (bool, error) {
	if hash == nil {
		return lib.SecureCompare([]byte(password), []byte(as.cfg.MessagingDefaultPassword)), nil
	}
	return lib.VerifyPassword(password, *hash)
}

// HashPassword hashes a password with the default argon2 parameters.
func (as *AuthService) HashPassword(password string) (string, error) {
	return lib.HashPassword(password, lib.DefaultArgonParams)
}

// IssueAccessToken signs a token for user and returns it with its expiry.
func (as *AuthService) IssueAccessToken(user *tables.User) (string, time.Time, error) {
	now := as.now()
	claims := &structs.AuthClaims{
		Sub:   user.Id,
		Phone: user.Phone,
		Role:  string(user.Role),
		Iat:   now,
		Exp:   now.Add(as.cfg.AccessTokenExpiry),
		Jti:   uuid.New(),
	}

	token, err := lib.SignAccessToken(claims, as.cfg.AccessTokenSecret)
	if err != nil {
		as.logger.Error("Failed to sign access token", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return "", time.Time{}, err
	}
	return token, claims.Exp, nil
}

// ValidateAccessToken parses a token issued by IssueAccessToken.
func (as *AuthService) ValidateAccessToken(token string) (*structs.AuthClaims, error) {
	return lib.ParseToken(token, as.cfg.AccessTokenSecret)
}
