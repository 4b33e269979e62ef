package httpapi

import (
	"math"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 6
	maxPageLimit     = 100
	maxPage          = math.MaxInt32
)

type pageDTO struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

type pagination struct {
	page  int
	limit int
}

func (p pagination) offset() int {
	return (p.page - 1) * p.limit
}

// parsePagination reads the 1-based page and the page size. Sizes above
// maxPageLimit are clamped; pages above maxPage are rejected so the offset
// cannot overflow.
func parsePagination(c *gin.Context) (pagination, error) {
	p := pagination{page: 1, limit: defaultPageLimit}

	var err error
	if v := c.Query("page"); v != "" {
		if p.page, err = strconv.Atoi(v); err != nil || p.page < 1 || p.page > maxPage {
			return p, badRequest("invalid page")
		}
	}
	if v := c.Query("limit"); v != "" {
		if p.limit, err = strconv.Atoi(v); err != nil || p.limit < 1 {
			return p, badRequest("invalid limit")
		}
		p.limit = min(p.limit, maxPageLimit)
	}
	return p, nil
}

func pageLink(c *gin.Context, page int) *string {
	u := url.URL{Path: c.Request.URL.Path}
	if c.Request.Host != "" {
		u.Host = c.Request.Host
		u.Scheme = "http"
		if c.Request.TLS != nil {
			u.Scheme = "https"
		}
	}
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

func newPage(c *gin.Context, p pagination, count int, results any) pageDTO {
	d := pageDTO{Count: count, Results: results}
	if p.page < (count+p.limit-1)/p.limit {
		d.Next = pageLink(c, p.page+1)
	}
	if p.page > 1 {
		d.Previous = pageLink(c, p.page-1)
	}
	return d
}
