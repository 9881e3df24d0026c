package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codeclash/codeclash/internal/errors"
)

const (
	ctxUserID  = "userID"
	ctxIsAdmin = "isAdmin"
)

// authenticate verifies the bearer token and stores the caller's identity on
// the request context.
func (a *API) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		respondErr(c, errors.New(errors.CodeUnauthenticated,
			errors.WithMessagef("missing authentication token")))
		return
	}

	claims, err := a.auth.Verify(token)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.Set(ctxUserID, claims.Subject)
	c.Set(ctxIsAdmin, claims.IsAdmin)
	c.Next()
}

func (a *API) adminOnly(c *gin.Context) {
	if !c.GetBool(ctxIsAdmin) {
		respondErr(c, errors.New(errors.CodePermissionDenied,
			errors.WithMessagef("admin access required")))
		return
	}
	c.Next()
}

// selfOrAdmin allows the user acting on their own resource, or an admin.
func (a *API) selfOrAdmin(c *gin.Context) {
	if c.Param("id") != c.GetString(ctxUserID) && !c.GetBool(ctxIsAdmin) {
		respondErr(c, errors.New(errors.CodePermissionDenied,
			errors.WithMessagef("not allowed")))
		return
	}
	c.Next()
}

// companyManagerOrAdmin allows an admin, or the user managing the company.
func (a *API) companyManagerOrAdmin(c *gin.Context) {
	if c.GetBool(ctxIsAdmin) {
		c.Next()
		return
	}

	cp, err := a.companies.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	if cp.ManagedBy != c.GetString(ctxUserID) {
		respondErr(c, errors.New(errors.CodePermissionDenied,
			errors.WithMessagef("not allowed")))
		return
	}
	c.Next()
}
