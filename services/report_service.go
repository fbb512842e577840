package services

import (
	"bytes"
	"fmt"

	"fica_onboarding_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const auditExportSheet = "Audit Log"

// ExportAuditLogsXLSX renders the filtered audit trail as an Excel
// workbook for compliance hand-off. Capped at 10000 rows per export.
func ExportAuditLogsXLSX(db *gorm.DB, filters AuditLogFilters) (*bytes.Buffer, error) {
	logs, _, err := GetAuditLogs(db, filters, 1, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(auditExportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Timestamp", "User", "Action", "Entity Type", "Entity ID", "Details"}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 12}})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(auditExportSheet, cell, h)
		f.SetCellStyle(auditExportSheet, cell, cell, headerStyle)
	}

	for row, entry := range logs {
		values := []interface{}{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.UserName,
			entry.Action,
			entry.EntityType,
			entry.EntityID,
			entry.Details,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(auditExportSheet, cell, v)
		}
	}

	f.SetColWidth(auditExportSheet, "A", "A", 20)
	f.SetColWidth(auditExportSheet, "B", "E", 18)
	f.SetColWidth(auditExportSheet, "F", "F", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ExportAuditHistoryXLSX exports the audit trail of one entity
func ExportAuditHistoryXLSX(db *gorm.DB, entityType, entityID string) (*bytes.Buffer, error) {
	if !models.IsValidAuditEntityType(entityType) {
		return nil, fmt.Errorf("%w: entity type %q", ErrInvalidInput, entityType)
	}
	return ExportAuditLogsXLSX(db, AuditLogFilters{EntityType: entityType, EntityID: entityID})
}
