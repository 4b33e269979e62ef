package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/foodgram/internal/common"
	"github.com/dmitrijs2005/foodgram/internal/server/models"
)

const (
	favorite = models.MarkFavorite
	cart     = models.MarkCart
)

// boolQuery parses "1"/"0"/"true"/"false"; absent yields nil.
func boolQuery(c *gin.Context, name string) (*bool, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, badRequest("invalid " + name)
	}
	return &b, nil
}

func recipeFilter(c *gin.Context) (models.RecipeFilter, error) {
	var f models.RecipeFilter
	var err error

	if v := c.Query("author"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, badRequest("invalid author")
		}
		f.AuthorID = &id
	}
	if v, ok := c.GetQuery("name"); ok {
		f.Name = &v
	}
	if f.IsFavorited, err = boolQuery(c, "is_favorited"); err != nil {
		return f, err
	}
	if f.IsInShoppingCart, err = boolQuery(c, "is_in_shopping_cart"); err != nil {
		return f, err
	}
	return f, nil
}

func (s *HTTPServer) listRecipes(c *gin.Context) {
	p, err := parsePagination(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	filter, err := recipeFilter(c)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	recipes, count, err := s.svc.Recipes.List(c.Request.Context(), currentUser(c), filter, p.limit, p.offset())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	results := make([]recipeDTO, len(recipes))
	for i, r := range recipes {
		results[i] = s.toRecipeDTO(r)
	}
	c.JSON(http.StatusOK, newPage(c, p, count, results))
}

func (s *HTTPServer) getRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	r, err := s.svc.Recipes.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toRecipeDTO(r))
}

func (s *HTTPServer) createRecipe(c *gin.Context) {
	var req recipeRequest
	if !s.bindJSON(c, &req) {
		return
	}

	r, err := s.svc.Recipes.Create(c.Request.Context(), currentUser(c), req.input())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.toRecipeDTO(r))
}

func (s *HTTPServer) updateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req recipeRequest
	if !s.bindJSON(c, &req) {
		return
	}

	r, err := s.svc.Recipes.Update(c.Request.Context(), currentUser(c), id, req.input())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toRecipeDTO(r))
}

func (s *HTTPServer) deleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.svc.Recipes.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *HTTPServer) getLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	link, err := s.svc.Recipes.ShortLink(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": link})
}

func (s *HTTPServer) redirectShortLink(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	target, err := s.svc.Recipes.Resolve(c.Request.Context(), id)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (s *HTTPServer) addMark(kind models.MarkKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		summary, err := s.svc.Marks.Add(c.Request.Context(), kind, currentUser(c), id)
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, s.toSummaryDTO(*summary))
	}
}

func (s *HTTPServer) removeMark(kind models.MarkKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := s.svc.Marks.Remove(c.Request.Context(), kind, currentUser(c), id); err != nil {
			s.abortWithError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *HTTPServer) downloadShoppingCart(c *gin.Context) {
	doc, err := s.svc.ShoppingList.Download(c.Request.Context(), currentUser(c))
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", common.ShoppingListFileName))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", doc)
}
