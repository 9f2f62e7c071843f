package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivenhartford/LCH-sub002/platform/apperr"
	"github.com/ivenhartford/LCH-sub002/platform/logger"
	"github.com/ivenhartford/LCH-sub002/platform/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeGateway struct {
	token     string
	err       error
	calls     int
	lastEmail string
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (string, error) {
	f.calls++
	f.lastEmail = email
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func validClaims(userID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID.String(),
		"email": "vet@lakeside.example",
		"name":  "Sam Fields",
		"roles": []string{"staff"},
		"type":  "access",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func newSessionService(t *testing.T, gw Gateway, path string) *Service {
	t.Helper()
	return New(gw, validator.New(), path, logger.New("development"))
}

func TestLoginStoresSession(t *testing.T) {
	userID := uuid.New()
	gw := &fakeGateway{token: mintToken(t, validClaims(userID))}
	svc := newSessionService(t, gw, "")

	user, err := svc.Login(context.Background(), "  vet@lakeside.example  ", "hunter22")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if gw.lastEmail != "vet@lakeside.example" {
		t.Fatalf("expected trimmed email sent to backend, got %q", gw.lastEmail)
	}
	if user.ID != userID || user.Name != "Sam Fields" || len(user.Roles) != 1 {
		t.Fatalf("unexpected user from claims: %+v", user)
	}
	if token, ok := svc.AccessToken(); !ok || token == "" {
		t.Fatal("expected a usable access token after login")
	}
	if !svc.SignedIn() {
		t.Fatal("expected signed-in state after login")
	}
}

func TestLoginRejectsInvalidEmail(t *testing.T) {
	gw := &fakeGateway{}
	svc := newSessionService(t, gw, "")

	_, err := svc.Login(context.Background(), "not-an-email", "hunter22")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatalf("expected no backend call for invalid input, got %d", gw.calls)
	}
}

func TestLoginPropagatesBackendError(t *testing.T) {
	gw := &fakeGateway{err: apperr.Unauthorized("invalid credentials")}
	svc := newSessionService(t, gw, "")

	_, err := svc.Login(context.Background(), "vet@lakeside.example", "wrong")
	if !apperr.Is(err, apperr.KindUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if svc.SignedIn() {
		t.Fatal("expected signed-out state after failed login")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	userID := uuid.New()
	gw := &fakeGateway{token: mintToken(t, validClaims(userID))}

	first := newSessionService(t, gw, path)
	if _, err := first.Login(context.Background(), "vet@lakeside.example", "hunter22"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	second := newSessionService(t, &fakeGateway{}, path)
	second.Restore()

	user, ok := second.CurrentUser()
	if !ok {
		t.Fatal("expected restored session to be signed in")
	}
	if user.ID != userID || user.Email != "vet@lakeside.example" {
		t.Fatalf("unexpected restored user: %+v", user)
	}
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	claims := validClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()
	token := mintToken(t, claims)
	if err := os.WriteFile(path, []byte(`{"access_token":"`+token+`"}`), 0o600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	svc := newSessionService(t, &fakeGateway{}, path)
	svc.Restore()

	if svc.SignedIn() {
		t.Fatal("expected expired session to be discarded")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected expired session file to be removed")
	}
}

func TestRestoreDiscardsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	svc := newSessionService(t, &fakeGateway{}, path)
	svc.Restore()

	if svc.SignedIn() {
		t.Fatal("expected corrupt session file to leave a signed-out state")
	}
}

func TestLogoutRemovesSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	gw := &fakeGateway{token: mintToken(t, validClaims(uuid.New()))}
	svc := newSessionService(t, gw, path)
	if _, err := svc.Login(context.Background(), "vet@lakeside.example", "hunter22"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	svc.Logout()

	if svc.SignedIn() {
		t.Fatal("expected signed-out state after logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected session file to be removed on logout")
	}
}

func TestExpireDropsSession(t *testing.T) {
	gw := &fakeGateway{token: mintToken(t, validClaims(uuid.New()))}
	svc := newSessionService(t, gw, "")
	if _, err := svc.Login(context.Background(), "vet@lakeside.example", "hunter22"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	svc.Expire()

	if svc.SignedIn() {
		t.Fatal("expected signed-out state after expiry")
	}
	if _, ok := svc.AccessToken(); ok {
		t.Fatal("expected no access token after expiry")
	}
}
