package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

type createTankRequest struct {
	Name           string  `json:"name"`
	FuelType       string  `json:"fuel_type"`
	CapacityLiters float64 `json:"capacity_liters"`
	CurrentLevel   float64 `json:"current_level"`
	MinimumLevel   float64 `json:"minimum_level"`
}

func (s *Server) CreateTank(c *gin.Context) {
	var req createTankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tankSvc.Create(c.Request.Context(), tankdomain.CreateTankRequest{
		Name:           strings.TrimSpace(req.Name),
		FuelType:       strings.TrimSpace(req.FuelType),
		CapacityLiters: req.CapacityLiters,
		CurrentLevel:   req.CurrentLevel,
		MinimumLevel:   req.MinimumLevel,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTanks(c *gin.Context) {
	resp, err := s.tankSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetTankByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.tankSvc.GetByID(c.Request.Context(), tankdomain.GetTankRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
