package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/foodgram/internal/server/services"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusNotFound, errorBody("not found"))
		return 0, false
	}
	return id, true
}

// recipesLimit reads the optional recipes_limit query value; -1 means all.
func recipesLimit(c *gin.Context) (int, error) {
	v := c.Query("recipes_limit")
	if v == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badRequest("invalid recipes_limit")
	}
	return n, nil
}

func (s *HTTPServer) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		s.abortWithError(c, badRequest("malformed request body"))
		return false
	}
	return true
}

func (s *HTTPServer) login(c *gin.Context) {
	var req loginRequest
	if !s.bindJSON(c, &req) {
		return
	}

	token, err := s.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// logout is a no-op beyond authentication: tokens are stateless.
func (s *HTTPServer) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) register(c *gin.Context) {
	var req registerRequest
	if !s.bindJSON(c, &req) {
		return
	}

	u, err := s.svc.Users.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createdUserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	})
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	p, err := parsePagination(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	users, count, err := s.svc.Users.List(c.Request.Context(), currentUser(c), p.limit, p.offset())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	results := make([]userDTO, len(users))
	for i, u := range users {
		results[i] = s.toUserDTO(u)
	}
	c.JSON(http.StatusOK, newPage(c, p, count, results))
}

func (s *HTTPServer) me(c *gin.Context) {
	p, err := s.svc.Users.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toUserDTO(p))
}

func (s *HTTPServer) getUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := s.svc.Users.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toUserDTO(p))
}

func (s *HTTPServer) setPassword(c *gin.Context) {
	var req setPasswordRequest
	if !s.bindJSON(c, &req) {
		return
	}

	if err := s.svc.Users.SetPassword(c.Request.Context(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) setAvatar(c *gin.Context) {
	var req avatarRequest
	if !s.bindJSON(c, &req) {
		return
	}

	key, err := s.svc.Users.SetAvatar(c.Request.Context(), currentUser(c), req.Avatar)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": s.mediaURL(key)})
}

func (s *HTTPServer) deleteAvatar(c *gin.Context) {
	if err := s.svc.Users.DeleteAvatar(c.Request.Context(), currentUser(c)); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) listSubscriptions(c *gin.Context) {
	p, err := parsePagination(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	authors, count, err := s.svc.Subscriptions.ListFollowing(c.Request.Context(), currentUser(c), limit, p.limit, p.offset())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	results := make([]authorDTO, len(authors))
	for i, a := range authors {
		results[i] = s.toAuthorDTO(a)
	}
	c.JSON(http.StatusOK, newPage(c, p, count, results))
}

func (s *HTTPServer) subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	limit, err := recipesLimit(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	a, err := s.svc.Subscriptions.Follow(c.Request.Context(), currentUser(c), id, limit)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.toAuthorDTO(a))
}

func (s *HTTPServer) unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.svc.Subscriptions.Unfollow(c.Request.Context(), currentUser(c), id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
