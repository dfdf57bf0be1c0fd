package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"staffdir/internal/structs"
	"staffdir/pkg/logger"

	"github.com/gin-gonic/gin"
)

type fakeIdentity struct {
	user structs.User
	err  error
}

func (f *fakeIdentity) Register(context.Context, structs.RegisterRequest) (structs.Session, error) {
	return structs.Session{}, f.err
}

func (f *fakeIdentity) Login(context.Context, structs.LoginRequest) (structs.Session, error) {
	return structs.Session{}, f.err
}

func (f *fakeIdentity) Logout(context.Context) error {
	return f.err
}

func (f *fakeIdentity) Current() *structs.Session {
	return nil
}

func (f *fakeIdentity) Sessions() <-chan *structs.Session {
	return make(chan *structs.Session)
}

func (f *fakeIdentity) Me(context.Context, string) (structs.User, error) {
	return f.user, f.err
}

func newGuardedRouter(idn *fakeIdentity) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)

	m := &mw{logger: logger.New("error"), identitySvc: idn}

	var seenUserID string
	router := gin.New()
	router.GET("/guarded", m.CheckAuth(), func(c *gin.Context) {
		seenUserID = c.GetString("user_id")
		c.Status(http.StatusOK)
	})
	return router, &seenUserID
}

func TestCheckAuthMissingHeader(t *testing.T) {
	router, _ := newGuardedRouter(&fakeIdentity{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCheckAuthRejectedToken(t *testing.T) {
	router, _ := newGuardedRouter(&fakeIdentity{err: errors.New("token expired")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCheckAuthResolvedToken(t *testing.T) {
	router, seenUserID := newGuardedRouter(&fakeIdentity{user: structs.User{Id: "uid-1"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *seenUserID != "uid-1" {
		t.Fatalf("expected user_id propagated, got %q", *seenUserID)
	}
}
