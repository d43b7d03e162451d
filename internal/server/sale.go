package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
)

type recordSaleRequest struct {
	ShiftID       string  `json:"shift_id"`
	PumpID        string  `json:"pump_id"`
	NozzleID      string  `json:"nozzle_id"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	PaymentMethod string  `json:"payment_method"`
	EmployeeID    string  `json:"employee_id"`
}

func (s *Server) RecordSale(c *gin.Context) {
	var req recordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.saleSvc.Record(c.Request.Context(), saledomain.RecordSaleRequest{
		ShiftID:       strings.TrimSpace(req.ShiftID),
		PumpID:        strings.TrimSpace(req.PumpID),
		NozzleID:      strings.TrimSpace(req.NozzleID),
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		EmployeeID:    strings.TrimSpace(req.EmployeeID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShiftSales(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.saleSvc.ListByShift(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
