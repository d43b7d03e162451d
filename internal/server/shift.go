package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	shiftdomain "github.com/smallbiznis/forecourt/internal/shift/domain"
)

type openShiftRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	OpeningCash float64  `json:"opening_cash"`
	Notes       string   `json:"notes"`
}

type nozzleClosingRequest struct {
	PumpID   string  `json:"pump_id"`
	NozzleID string  `json:"nozzle_id"`
	Reading  float64 `json:"reading"`
}

type tankClosingRequest struct {
	TankID  string  `json:"tank_id"`
	Reading float64 `json:"reading"`
}

type closeShiftRequest struct {
	ClosingCash  float64                `json:"closing_cash"`
	EndTime      string                 `json:"end_time"`
	PumpReadings []nozzleClosingRequest `json:"pump_readings"`
	TankReadings []tankClosingRequest   `json:"tank_readings"`
	Notes        string                 `json:"notes"`
	SupervisorID string                 `json:"supervisor_id"`
}

func (s *Server) OpenShift(c *gin.Context) {
	var req openShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shiftSvc.Open(c.Request.Context(), shiftdomain.OpenShiftRequest{
		EmployeeIDs: req.EmployeeIDs,
		OpeningCash: req.OpeningCash,
		Notes:       strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetActiveShift(c *gin.Context) {
	resp, err := s.shiftSvc.Active(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if resp == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetShiftByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.shiftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetShiftSummary(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.shiftSvc.Summary(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CloseShift(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req closeShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var endTime *time.Time
	if trimmed := strings.TrimSpace(req.EndTime); trimmed != "" {
		t, err := time.Parse(time.RFC3339, trimmed)
		if err != nil {
			AbortWithError(c, newValidationError("end_time", "invalid_end_time", "invalid end_time"))
			return
		}
		utc := t.UTC()
		endTime = &utc
	}

	pumpReadings := make([]shiftdomain.NozzleClosing, 0, len(req.PumpReadings))
	for _, reading := range req.PumpReadings {
		pumpReadings = append(pumpReadings, shiftdomain.NozzleClosing{
			PumpID:   strings.TrimSpace(reading.PumpID),
			NozzleID: strings.TrimSpace(reading.NozzleID),
			Reading:  reading.Reading,
		})
	}
	tankReadings := make([]shiftdomain.TankClosing, 0, len(req.TankReadings))
	for _, reading := range req.TankReadings {
		tankReadings = append(tankReadings, shiftdomain.TankClosing{
			TankID:  strings.TrimSpace(reading.TankID),
			Reading: reading.Reading,
		})
	}

	resp, err := s.shiftSvc.Close(c.Request.Context(), shiftdomain.CloseShiftRequest{
		ShiftID:      id,
		ClosingCash:  req.ClosingCash,
		EndTime:      endTime,
		PumpReadings: pumpReadings,
		TankReadings: tankReadings,
		Notes:        strings.TrimSpace(req.Notes),
		SupervisorID: strings.TrimSpace(req.SupervisorID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
