package middleware

import (
	"net/http"

	"redlink/config"

	"github.com/gin-gonic/gin"
)

// ReferralCapture stores a ?ref= query parameter in a cookie so the tag
// survives until registration, where it is consumed once and cleared.
// An existing cookie is not overwritten: the first referrer wins.
func ReferralCapture(cfg *config.ReferralConfig, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Query("ref")
		if ref != "" {
			if _, err := c.Cookie(cfg.CookieName); err != nil {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(cfg.CookieName, ref, int(cfg.CookieMaxAge.Seconds()), "/", "", secure, true)
			}
		}
		c.Next()
	}
}

// ClearReferralCookie expires the referral cookie after it has been consumed.
func ClearReferralCookie(c *gin.Context, cfg *config.ReferralConfig, secure bool) {
	c.SetCookie(cfg.CookieName, "", -1, "/", "", secure, true)
}
