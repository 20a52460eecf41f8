package httpapi

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hirafie/hirafie-backend/internal/domain/pagination"
)

// pageOptions reads the shared pagination query parameters. Unparseable
// values fall back to the defaults applied by Normalize.
func pageOptions(c *gin.Context) pagination.Options {
	opts := pagination.Options{SortBy: c.Query("sortBy")}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		opts.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = v
	}
	return opts
}

// queryDecimal parses an optional decimal query parameter, ignoring garbage.
func queryDecimal(c *gin.Context, name string) *decimal.Decimal {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

// queryBool parses an optional boolean query parameter, ignoring garbage.
func queryBool(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
