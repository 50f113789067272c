package api

import (
	"context"
	"strconv"
	"strings"

	apperrors "github.com/jrsteele09/go-school-app/internal/errors"
)

const otpLength = 6

// Raw PHP API response shapes.
type loginResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"msg"`
	UserID *int64 `json:"userid"`
}

type verifyOTPResponse struct {
	Status bool   `json:"status"`
	Msg    string `json:"msg"`
	Token  string `json:"token"`
}

type loginRequest struct {
	UserID   string `json:"userid"`
	Password string `json:"password"`
}

type verifyOTPRequest struct {
	UserID string `json:"userid"`
	OTP    string `json:"otp"`
}

// LoginResult is the normalized outcome of a successful login. It is
// transient: the user id keys the OTP step and is not persisted.
type LoginResult struct {
	UserID  string
	Message string
}

// VerifyOTPResult carries the raw bearer token issued for a verified OTP.
type VerifyOTPResult struct {
	Token   string
	Message string
}

// AuthService implements the two public auth operations: Login and
// VerifyOTP. Each either returns a normalized result or exactly one typed
// error.
type AuthService struct {
	gw *Gateway
}

func NewAuthService(gw *Gateway) *AuthService {
	return &AuthService{gw: gw}
}

// Login requests an OTP for the given credentials. The user id is trimmed;
// the password is not, since passwords may legitimately contain meaningful
// whitespace.
func (s *AuthService) Login(ctx context.Context, userID, password string) (*LoginResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.Validation("User ID is required")
	}
	if password == "" {
		return nil, apperrors.Validation("Password is required")
	}

	var resp loginResponse
	if err := s.gw.Post(ctx, EndpointLogin, loginRequest{UserID: userID, Password: password}, &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		return nil, apperrors.API(messageOr(resp.Msg, "Login failed"), 0)
	}
	if resp.UserID == nil {
		// Contract violation on the server side, not a user input problem.
		return nil, apperrors.API("Login succeeded but userid missing", 0)
	}

	return &LoginResult{
		UserID:  strconv.FormatInt(*resp.UserID, 10),
		Message: messageOr(resp.Msg, "OTP sent"),
	}, nil
}

// VerifyOTP exchanges a verified OTP for a bearer token. The OTP is
// normalized through NormalizeOTP first, so pasted values with separators
// are accepted.
func (s *AuthService) VerifyOTP(ctx context.Context, userID, otp string) (*VerifyOTPResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.Validation("User ID is required")
	}

	otp = NormalizeOTP(otp)
	if len(otp) != otpLength {
		return nil, apperrors.Validation("OTP must be 6 digits")
	}

	var resp verifyOTPResponse
	if err := s.gw.Post(ctx, EndpointVerifyOTP, verifyOTPRequest{UserID: userID, OTP: otp}, &resp); err != nil {
		return nil, err
	}

	if !resp.Status {
		return nil, apperrors.API(messageOr(resp.Msg, "OTP verification failed"), 0)
	}

	token := strings.TrimSpace(resp.Token)
	if token == "" {
		return nil, apperrors.API("OTP verified but token missing", 0)
	}
	// Only raw tokens are ever stored or propagated; a scheme prefix here
	// would silently break the Authorization header downstream.
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return nil, apperrors.API("Invalid token format from server", 0)
	}

	return &VerifyOTPResult{
		Token:   token,
		Message: messageOr(resp.Msg, "Login successful"),
	}, nil
}

// NormalizeOTP strips every non-digit rune, so "123-456" and "1 2 3 4 5 6"
// both normalize to "123456".
func NormalizeOTP(otp string) string {
	var b strings.Builder
	for _, r := range otp {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
