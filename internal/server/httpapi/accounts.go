package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/sailblog/internal/common"
	"github.com/gin-gonic/gin"
)

func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return
	}

	user, err := s.users.Signup(c.Request.Context(), req.Nickname, req.Password, req.PasswordConfirmation)
	if err != nil {
		s.fail(c, err, messages{http.StatusConflict: MsgDuplicateNickname})
		return
	}

	loggerFrom(c.Request.Context(), s.logger).Info(c.Request.Context(), "user signed up", "user_id", user.ID)
	c.JSON(http.StatusCreated, messageResponse{Message: "Signup successful!"})
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Nickname, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			s.metrics.loginResult("failure")
		}
		s.fail(c, err, messages{http.StatusUnauthorized: MsgBadCredentials})
		return
	}

	s.metrics.loginResult("success")
	s.setSessionCookie(c, token, int(s.sessionTTL.Seconds()))
	c.JSON(http.StatusOK, messageResponse{Message: "Login successful."})
}

// logout only clears the cookie; the token itself stays valid until exp.
func (s *Server) logout(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, messageResponse{Message: "Logout successful."})
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.SessionCookieName, value, maxAge, "/", "", s.secureCookies, true)
}
