package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	anomalydomain "github.com/smallbiznis/forecourt/internal/anomaly/domain"
	pumpdomain "github.com/smallbiznis/forecourt/internal/pump/domain"
	purchasedomain "github.com/smallbiznis/forecourt/internal/purchase/domain"
	reconciliationdomain "github.com/smallbiznis/forecourt/internal/reconciliation/domain"
	saledomain "github.com/smallbiznis/forecourt/internal/sale/domain"
	shiftdomain "github.com/smallbiznis/forecourt/internal/shift/domain"
	"github.com/smallbiznis/forecourt/internal/stationlock"
	tankdomain "github.com/smallbiznis/forecourt/internal/tank/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tankdomain.ErrNotFound),
		errors.Is(err, pumpdomain.ErrNotFound),
		errors.Is(err, pumpdomain.ErrNozzleNotFound),
		errors.Is(err, shiftdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "resource not found",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, shiftdomain.ErrActiveShiftExists),
		errors.Is(err, shiftdomain.ErrDailyShiftLimit),
		errors.Is(err, shiftdomain.ErrInvalidState),
		errors.Is(err, stationlock.ErrLockHeld):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case isDomainValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   "request",
					Code:    err.Error(),
					Message: err.Error(),
				},
			},
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

var domainValidationErrors = []error{
	ErrInvalidRequest,
	tankdomain.ErrInvalidID,
	tankdomain.ErrInvalidName,
	tankdomain.ErrInvalidFuelType,
	tankdomain.ErrInvalidCapacity,
	tankdomain.ErrInvalidLevel,
	pumpdomain.ErrInvalidID,
	pumpdomain.ErrInvalidName,
	pumpdomain.ErrInvalidTank,
	pumpdomain.ErrInvalidNozzles,
	pumpdomain.ErrInvalidFuelType,
	pumpdomain.ErrInvalidReading,
	saledomain.ErrInvalidShift,
	saledomain.ErrInvalidNozzle,
	saledomain.ErrInvalidQuantity,
	saledomain.ErrInvalidPrice,
	saledomain.ErrInvalidPayment,
	saledomain.ErrInvalidEmployee,
	purchasedomain.ErrNoItems,
	purchasedomain.ErrInvalidItem,
	purchasedomain.ErrInvalidQuantity,
	purchasedomain.ErrInvalidSupplier,
	purchasedomain.ErrInvalidTank,
	shiftdomain.ErrInvalidID,
	shiftdomain.ErrNegativeCash,
	shiftdomain.ErrNegativeReading,
	shiftdomain.ErrInvalidEmployee,
	shiftdomain.ErrInvalidSupervisor,
	reconciliationdomain.ErrInvalidRange,
	reconciliationdomain.ErrInvalidTank,
	anomalydomain.ErrInvalidLookback,
}

func isDomainValidationError(err error) bool {
	for _, target := range domainValidationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
