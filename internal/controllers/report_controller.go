package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"production-system/internal/dto"
	"production-system/internal/production"
	"production-system/internal/services"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger, now: time.Now}
}

// GetOrdersReport: ?format=xlsx|csv&search=&filter[status]=&sort_order=
func (c *ReportController) GetOrdersReport(ctx echo.Context) error {
	format, err := parseReportFormat(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	order, err := production.ParseSortOrder(ctx.QueryParam("sort_order"))
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("%v", err), c.logger)
	}
	statuses, err := production.ParseStatuses(ctx.QueryParam("filter[status]"))
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("%v", err), c.logger)
	}

	c.logger.Debug("Запрос на отчет по заказам",
		zap.String("format", string(format)),
		zap.String("search", ctx.QueryParam("search")),
		zap.String("sort_order", string(order)),
	)

	report, err := c.reportService.OrdersReport(ctx.Request().Context(), ctx.QueryParam("search"), statuses, order)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respond(ctx, format, report)
}

// GetWorklogsReport: ?format=xlsx|csv&order_id=
func (c *ReportController) GetWorklogsReport(ctx echo.Context) error {
	format, err := parseReportFormat(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var orderID *uint64
	if raw := ctx.QueryParam("order_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return utils.ErrorResponse(ctx, apperrors.NewInvalidInputError("некорректный order_id: %q", raw), c.logger)
		}
		orderID = &id
	}

	report, err := c.reportService.WorklogsReport(ctx.Request().Context(), orderID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respond(ctx, format, report)
}

func parseReportFormat(ctx echo.Context) (dto.ReportFormat, error) {
	format, ok := dto.ParseReportFormat(ctx.QueryParam("format"))
	if !ok {
		return "", apperrors.NewInvalidInputError("неподдерживаемый формат отчета: %q", ctx.QueryParam("format"))
	}
	return format, nil
}

func (c *ReportController) respond(ctx echo.Context, format dto.ReportFormat, report *dto.Report) error {
	fileName := fmt.Sprintf("%s_%s.%s", report.Title, c.now().Format("2006-01-02"), format)
	if format == dto.ReportCSV {
		return c.respondWithCSV(ctx, fileName, report)
	}
	return c.respondWithXLSX(ctx, fileName, report)
}

func (c *ReportController) respondWithCSV(ctx echo.Context, fileName string, report *dto.Report) error {
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(ctx.Response().Writer)
	if err := w.Write(report.Headers); err != nil {
		return err
	}
	record := make([]string, len(report.Headers))
	for _, row := range report.Rows {
		record = record[:0]
		for _, v := range row {
			record = append(record, csvValue(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func csvValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, fileName string, report *dto.Report) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("Не удалось закрыть xlsx", zap.Error(err))
		}
	}()

	sheet := report.Sheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := f.SetSheetRow(sheet, "A1", &report.Headers); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(report.Headers), 1)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", lastHeader, style)

	for i, row := range report.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(report.Headers))
	_ = f.SetColWidth(sheet, "A", lastCol, 18)

	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
