package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"groupcal/core/config"
	"groupcal/core/constants"
)

func mustLoadConfig(t *testing.T) {
	t.Helper()
	if _, err := config.Load(); err != nil {
		t.Fatalf("config.Load: %v", err)
	}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	mustLoadConfig(t)

	userID := uuid.New()
	token, err := GenerateToken(userID, "kim@example.com", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateAndParseToken(token)
	if err != nil {
		t.Fatalf("ValidateAndParseToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user_id = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "kim@example.com" {
		t.Fatalf("email = %s", claims.Email)
	}
}

func TestValidateAndParseToken_RejectsRefreshScope(t *testing.T) {
	mustLoadConfig(t)

	token, err := GenerateToken(uuid.New(), "kim@example.com", constants.ScopeTokenRefresh)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateAndParseToken(token); err == nil {
		t.Fatalf("refresh-scoped token must not pass access validation")
	}
}

func TestValidateAndParseToken_RejectsTampering(t *testing.T) {
	mustLoadConfig(t)

	token, err := GenerateToken(uuid.New(), "kim@example.com", constants.ScopeTokenAccess)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ValidateAndParseToken(token + "x"); err == nil {
		t.Fatalf("tampered token must fail validation")
	}
}

func TestValidateAndParseToken_RejectsUnsignedToken(t *testing.T) {
	mustLoadConfig(t)

	claims := TokenClaims{
		UserID: uuid.New(),
		Scope:  constants.ScopeTokenAccess,
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none: %v", err)
	}

	if _, err := ValidateAndParseToken(unsigned); err == nil {
		t.Fatalf("alg=none token must fail validation")
	}
}

func TestGetTokenFromHeader(t *testing.T) {
	e := echo.New()

	newCtx := func(header string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	if token, err := GetTokenFromHeader(newCtx("Bearer abc.def.ghi")); err != nil || token != "abc.def.ghi" {
		t.Fatalf("token = %q, err = %v", token, err)
	}
	if _, err := GetTokenFromHeader(newCtx("")); err == nil {
		t.Fatalf("missing header must fail")
	}
	if _, err := GetTokenFromHeader(newCtx("Basic abc")); err == nil {
		t.Fatalf("non-bearer scheme must fail")
	}
}
