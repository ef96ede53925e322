package httpapi

import (
	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

// guardedHandler receives the authenticated user explicitly.
type guardedHandler func(c *gin.Context, user *models.User)

// requireUser resolves the session cookie through the guard and only then
// calls h. Requests without a valid session never reach h.
func (s *Server) requireUser(h guardedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(common.SessionCookieName)
		if err != nil || token == "" {
			s.fail(c, common.ErrorUnauthenticated, messages{401: MsgAuthRequired})
			return
		}

		user, err := s.guard.Authenticate(c.Request.Context(), token, s.now())
		if err != nil {
			s.fail(c, err, messages{401: MsgInvalidToken})
			return
		}

		h(c, user)
	}
}
