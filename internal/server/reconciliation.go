package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	reconciliationdomain "github.com/smallbiznis/forecourt/internal/reconciliation/domain"
)

func (s *Server) FuelReconciliationReport(c *gin.Context) {
	startDate, ok := parseDateParam(c.Query("start_date"))
	if !ok {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, ok := parseDateParam(c.Query("end_date"))
	if !ok {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	resp, err := s.reconciliationSvc.FuelReport(c.Request.Context(), reconciliationdomain.FuelReportRequest{
		StartDate: startDate,
		EndDate:   endOfDay(endDate),
		TankID:    strings.TrimSpace(c.Query("tank_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DailyReconciliationReport(c *gin.Context) {
	date, ok := parseDateParam(c.Query("date"))
	if !ok {
		AbortWithError(c, newValidationError("date", "invalid_date", "invalid date"))
		return
	}

	resp, err := s.reconciliationSvc.DailyReport(c.Request.Context(), reconciliationdomain.DailyReportRequest{
		Date: date,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PumpReconciliationReport(c *gin.Context) {
	startDate, ok := parseDateParam(c.Query("start_date"))
	if !ok {
		AbortWithError(c, newValidationError("start_date", "invalid_start_date", "invalid start_date"))
		return
	}
	endDate, ok := parseDateParam(c.Query("end_date"))
	if !ok {
		AbortWithError(c, newValidationError("end_date", "invalid_end_date", "invalid end_date"))
		return
	}

	resp, err := s.reconciliationSvc.PumpReport(c.Request.Context(), reconciliationdomain.PumpReportRequest{
		StartDate: startDate,
		EndDate:   endOfDay(endDate),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
