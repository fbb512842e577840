package handlers

import (
	"net/http"
	"strconv"
	"time"

	"fica_onboarding_go/db"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
)

func auditFiltersFromQuery(c echo.Context) services.AuditLogFilters {
	filters := services.AuditLogFilters{
		UserID:      c.QueryParam("user_id"),
		EntityType:  c.QueryParam("entity_type"),
		EntityID:    c.QueryParam("entity_id"),
		Action:      c.QueryParam("action"),
		SearchQuery: c.QueryParam("q"),
	}
	if from := c.QueryParam("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.DateFrom = t
		}
	}
	if to := c.QueryParam("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			// inclusive end of day
			filters.DateTo = t.Add(24*time.Hour - time.Second)
		}
	}
	return filters
}

// ListAuditLogs returns paginated audit entries, newest first
func ListAuditLogs(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	logs, total, err := services.GetAuditLogs(db.DB, auditFiltersFromQuery(c), page, pageSize)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetEntityAuditHistory returns every audit entry for one entity
func GetEntityAuditHistory(c echo.Context) error {
	logs, err := services.GetEntityAuditHistory(db.DB, c.Param("entity_type"), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// ExportEntityAuditHistory streams one entity's audit trail as xlsx
func ExportEntityAuditHistory(c echo.Context) error {
	entityType, entityID := c.Param("entity_type"), c.Param("id")
	buf, err := services.ExportAuditHistoryXLSX(db.DB, entityType, entityID)
	if err != nil {
		return serviceError(c, err)
	}

	filename := "audit-" + entityType + "-" + entityID + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportAuditLogs streams the filtered audit log as an xlsx workbook
func ExportAuditLogs(c echo.Context) error {
	buf, err := services.ExportAuditLogsXLSX(db.DB, auditFiltersFromQuery(c))
	if err != nil {
		return serviceError(c, err)
	}

	filename := "audit-log-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
