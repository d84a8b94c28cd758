package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"redlink/config"

	"github.com/gin-gonic/gin"
)

func referralTestRouter(cfg *config.ReferralConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p/someone", ReferralCapture(cfg, false), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func referralCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestReferralCapture(t *testing.T) {
	cfg := &config.ReferralConfig{CookieName: "referral_code", CookieMaxAge: 30 * 24 * time.Hour}

	t.Run("sets cookie from ref param", func(t *testing.T) {
		r := referralTestRouter(cfg)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p/someone?ref=alice", nil)
		r.ServeHTTP(rec, req)

		ck := referralCookie(t, rec, "referral_code")
		if ck == nil {
			t.Fatal("referral cookie not set")
		}
		if ck.Value != "alice" {
			t.Fatalf("cookie value = %q, want alice", ck.Value)
		}
		if !ck.HttpOnly {
			t.Fatal("cookie not HttpOnly")
		}
		if ck.MaxAge != int((30 * 24 * time.Hour).Seconds()) {
			t.Fatalf("cookie max age = %d", ck.MaxAge)
		}
	})

	t.Run("no ref param, no cookie", func(t *testing.T) {
		r := referralTestRouter(cfg)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p/someone", nil)
		r.ServeHTTP(rec, req)

		if ck := referralCookie(t, rec, "referral_code"); ck != nil {
			t.Fatalf("unexpected cookie %q", ck.Value)
		}
	})

	t.Run("existing cookie is not overwritten", func(t *testing.T) {
		r := referralTestRouter(cfg)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/p/someone?ref=mallory", nil)
		req.AddCookie(&http.Cookie{Name: "referral_code", Value: "alice"})
		r.ServeHTTP(rec, req)

		if ck := referralCookie(t, rec, "referral_code"); ck != nil {
			t.Fatalf("cookie overwritten with %q", ck.Value)
		}
	})
}

func TestClearReferralCookie(t *testing.T) {
	cfg := &config.ReferralConfig{CookieName: "referral_code", CookieMaxAge: time.Hour}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/register", func(c *gin.Context) {
		ClearReferralCookie(c, cfg, false)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	req.AddCookie(&http.Cookie{Name: "referral_code", Value: "alice"})
	r.ServeHTTP(rec, req)

	ck := referralCookie(t, rec, "referral_code")
	if ck == nil {
		t.Fatal("expected expiring cookie in response")
	}
	if ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("cookie = %q maxage=%d, want empty and expiring", ck.Value, ck.MaxAge)
	}
}
