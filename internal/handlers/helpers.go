package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/company-scheduler/internal/httperr"
	"github.com/BruksfildServices01/company-scheduler/internal/middleware"
)

func companyFromContext(c *gin.Context) uint {
	return c.GetUint(middleware.ContextCompanyID)
}

func actorFromContext(c *gin.Context) *uint {
	id := c.GetUint(middleware.ContextUserID)
	if id == 0 {
		return nil
	}
	return &id
}

// pathID parses a numeric path parameter and answers 400 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id.")
		return 0, false
	}
	return uint(n), true
}

// optionalQueryID returns nil for an absent parameter.
func optionalQueryID(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return nil, false
	}
	id := uint(n)
	return &id, true
}

func requiredQueryID(c *gin.Context, name string) (uint, bool) {
	id, ok := optionalQueryID(c, name)
	if !ok {
		return 0, false
	}
	if id == nil {
		httperr.BadRequest(c, "missing_"+name, name+" is required.")
		return 0, false
	}
	return *id, true
}
