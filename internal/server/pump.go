package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
)

type createNozzleRequest struct {
	FuelType       string  `json:"fuel_type"`
	OpeningReading float64 `json:"opening_reading"`
	AttendantID    string  `json:"attendant_id"`
}

type createPumpRequest struct {
	Name    string                `json:"name"`
	TankID  string                `json:"tank_id"`
	Nozzles []createNozzleRequest `json:"nozzles"`
}

func (s *Server) CreatePump(c *gin.Context) {
	var req createPumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	nozzles := make([]pumpdomain.CreateNozzleRequest, 0, len(req.Nozzles))
	for _, nozzle := range req.Nozzles {
		nozzles = append(nozzles, pumpdomain.CreateNozzleRequest{
			FuelType:       strings.TrimSpace(nozzle.FuelType),
			OpeningReading: nozzle.OpeningReading,
			AttendantID:    strings.TrimSpace(nozzle.AttendantID),
		})
	}

	resp, err := s.pumpSvc.Create(c.Request.Context(), pumpdomain.CreatePumpRequest{
		Name:    strings.TrimSpace(req.Name),
		TankID:  strings.TrimSpace(req.TankID),
		Nozzles: nozzles,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListPumps(c *gin.Context) {
	resp, err := s.pumpSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetPumpByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.pumpSvc.GetByID(c.Request.Context(), pumpdomain.GetPumpRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
