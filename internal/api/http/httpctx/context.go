package httpctx

import (
	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/model"
)

const identityKey = "debtkeeper.identity"

// SetIdentity attaches the authenticated identity to the request
// context. Called only by the authentication middleware.
func SetIdentity(c *gin.Context, ident model.Identity) {
	c.Set(identityKey, ident)
}

// GetIdentity returns the identity set by the authentication
// middleware. The second return is false on requests that never went
// through the middleware.
func GetIdentity(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	ident, ok := v.(model.Identity)
	return ident, ok
}
