package auth

import (
	"testing"
	"time"

	"river-transit/ticketdesk/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService([]byte("secret"))
	tok, err := svc.Issue("user-7", constants.RoleSeller, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claims.UserID() != "user-7" || claims.Role() != constants.RoleSeller {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Source() != constants.RequestSourceJWT {
		t.Errorf("Source() = %s", claims.Source())
	}
}

func TestTokenRejections(t *testing.T) {
	svc := NewTokenService([]byte("secret"))

	expired, _ := svc.Issue("u", constants.RoleAdmin, -time.Minute)
	if _, err := svc.Validate(expired); err == nil {
		t.Error("expired token accepted")
	}

	foreign, _ := NewTokenService([]byte("other")).Issue("u", constants.RoleAdmin, time.Hour)
	if _, err := svc.Validate(foreign); err == nil {
		t.Error("token signed with another key accepted")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u", "role": "admin", "iss": tokenIssuer})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := svc.Validate(unsigned); err == nil {
		t.Error("unsigned token accepted")
	}

	if _, err := svc.Issue("u", "captain", time.Hour); err == nil {
		t.Error("unknown role issued")
	}

	if _, err := NewTokenService(nil).Validate("anything"); err == nil {
		t.Error("empty secret should disable bearer auth")
	}
}
