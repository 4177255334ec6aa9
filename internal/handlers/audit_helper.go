package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/company-scheduler/internal/audit"
)

// recordAudit queues an event for the authenticated member of c.
func recordAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID *uint,
	meta any,
) {
	d.Dispatch(audit.Event{
		CompanyID: companyFromContext(c),
		UserID:    actorFromContext(c),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  meta,
	})
}
