package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listIngredients is not paginated.
func (s *HTTPServer) listIngredients(c *gin.Context) {
	items, err := s.svc.Ingredients.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) getIngredient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := s.svc.Ingredients.Get(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
