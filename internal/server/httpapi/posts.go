package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/sailblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) listPosts(c *gin.Context) {
	items, err := s.posts.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, toSummaries(items))
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, messages{http.StatusNotFound: MsgPostNotFound})
		return
	}
	c.JSON(http.StatusOK, toPostResponse(post))
}

func (s *Server) createPost(c *gin.Context, user *models.User) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return
	}

	post, err := s.posts.Create(c.Request.Context(), user, req.Title, req.Content)
	if err != nil {
		s.fail(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, postMutationResponse{
		Message: "Post created successfully.",
		Post:    toPostBody(post, false),
	})
}

func (s *Server) updatePost(c *gin.Context, user *models.User) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": MsgInvalidBody})
		return
	}

	post, err := s.posts.Update(c.Request.Context(), user, c.Param("id"), req.Title, req.Content)
	if err != nil {
		s.fail(c, err, messages{http.StatusForbidden: MsgEditForbidden})
		return
	}

	c.JSON(http.StatusOK, postMutationResponse{
		Message: "Post updated successfully.",
		Post:    toPostBody(post, true),
	})
}

func (s *Server) deletePost(c *gin.Context, user *models.User) {
	if err := s.posts.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		s.fail(c, err, messages{http.StatusForbidden: MsgDeleteForbidden})
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully."})
}
