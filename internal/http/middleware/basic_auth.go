// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements BasicAuth, the credential gate in front of the admin
// page. Credentials come from configuration; the password is either compared
// in constant time against a plaintext value or verified against a bcrypt
// hash. A failed attempt never reveals which half of the pair was wrong.
package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRealm is used when BasicAuthOptions.Realm is empty.
const DefaultRealm = "Submissions"

// CodeUnauthorized is the error code in the 401 body.
const CodeUnauthorized = "unauthorized"

// BasicAuthOptions configures BasicAuth.
//
// When PassBcrypt is set it takes precedence over Pass.
type BasicAuthOptions struct {
	User       string
	Pass       string
	PassBcrypt string
	Realm      string
}

// BasicAuth returns a middleware that admits only requests carrying the
// configured Basic credentials. Everything else gets 401, a Basic challenge
// for the realm, and a JSON error body.
func BasicAuth(opt BasicAuthOptions) gin.HandlerFunc {
	realm := opt.Realm
	if realm == "" {
		realm = DefaultRealm
	}
	challenge := "Basic realm=" + strconv.Quote(realm)
	wantUser := sha256.Sum256([]byte(opt.User))
	wantPass := sha256.Sum256([]byte(opt.Pass))
	hash := []byte(opt.PassBcrypt)

	checkPass := func(got string) bool {
		if len(hash) > 0 {
			return bcrypt.CompareHashAndPassword(hash, []byte(got)) == nil
		}
		h := sha256.Sum256([]byte(got))
		return subtle.ConstantTimeCompare(h[:], wantPass[:]) == 1
	}

	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if ok {
			gotUser := sha256.Sum256([]byte(user))
			userOK := subtle.ConstantTimeCompare(gotUser[:], wantUser[:]) == 1
			// Always check the password so timing does not depend on the user.
			passOK := checkPass(pass)
			if userOK && passOK {
				c.Next()
				return
			}
			LoggerFrom(c).Warn().Msg("admin authentication failed")
		}

		rid, _ := c.Get(requestIDKey)
		c.Header("WWW-Authenticate", challenge)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"request_id": asString(rid),
			"code":       CodeUnauthorized,
			"message":    "authentication required",
		})
	}
}
