package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	purchasedomain "github.com/smallbiznis/forecourt/internal/purchase/domain"
)

type recordPurchaseItemRequest struct {
	ItemName  string  `json:"item_name"`
	FuelType  string  `json:"fuel_type"`
	TankID    string  `json:"tank_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type recordPurchaseRequest struct {
	SupplierID string                      `json:"supplier_id"`
	InvoiceNo  string                      `json:"invoice_no"`
	ReceivedAt string                      `json:"received_at"`
	Items      []recordPurchaseItemRequest `json:"items"`
}

func (s *Server) RecordPurchase(c *gin.Context) {
	var req recordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var receivedAt *time.Time
	if trimmed := strings.TrimSpace(req.ReceivedAt); trimmed != "" {
		t, ok := parseDateParam(trimmed)
		if !ok {
			AbortWithError(c, newValidationError("received_at", "invalid_received_at", "invalid received_at"))
			return
		}
		receivedAt = &t
	}

	items := make([]purchasedomain.RecordPurchaseItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, purchasedomain.RecordPurchaseItem{
			ItemName:  strings.TrimSpace(item.ItemName),
			FuelType:  strings.TrimSpace(item.FuelType),
			TankID:    strings.TrimSpace(item.TankID),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	resp, err := s.purchaseSvc.Record(c.Request.Context(), purchasedomain.RecordPurchaseRequest{
		SupplierID: strings.TrimSpace(req.SupplierID),
		InvoiceNo:  strings.TrimSpace(req.InvoiceNo),
		ReceivedAt: receivedAt,
		Items:      items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
