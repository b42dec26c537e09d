package middleware

import (
	"go-attendance/internal/scope"

	"github.com/gin-gonic/gin"
)

// ExtractActor rebuilds the acting user from the claims AuthMiddleware
// stored on the request. Scope resolution happens here, once per
// request, so every service below sees the same resolved view.
func ExtractActor(c *gin.Context) scope.Actor {
	role := scope.Role(c.GetString(CtxRole))
	extras, _ := c.Get(CtxExtraAreas)
	extraIDs, _ := extras.([]string)

	return scope.Actor{
		UserID:      c.GetString(CtxUserID),
		Role:        role,
		Scope:       scope.Resolve(role, c.GetString(CtxAreaID), extraIDs),
		Nationality: c.GetString(CtxNationality),
	}
}
