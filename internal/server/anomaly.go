package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	anomalydomain "github.com/smallbiznis/forecourt/internal/anomaly/domain"
)

func (s *Server) DetectAnomalies(c *gin.Context) {
	lookbackDays, ok := parseOptionalInt(c.Query("lookback_days"))
	if !ok {
		AbortWithError(c, newValidationError("lookback_days", "invalid_lookback_days", "invalid lookback_days"))
		return
	}

	resp, err := s.anomalySvc.Detect(c.Request.Context(), anomalydomain.DetectRequest{
		LookbackDays: lookbackDays,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
