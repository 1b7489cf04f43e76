package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	ingredientdomain "github.com/smallbiznis/pizzaria/internal/ingredient/domain"
	machinedomain "github.com/smallbiznis/pizzaria/internal/machine/domain"
	menudomain "github.com/smallbiznis/pizzaria/internal/menu/domain"
	orderdomain "github.com/smallbiznis/pizzaria/internal/order/domain"
	stockledgerdomain "github.com/smallbiznis/pizzaria/internal/stockledger/domain"
	"github.com/smallbiznis/pizzaria/pkg/jsonstore"
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
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
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

// errorClass maps a family of sentinel errors onto one HTTP response.
type errorClass struct {
	status  int
	kind    string
	message string
	matches []error
}

var errorClasses = []errorClass{
	{
		status: http.StatusNotFound, kind: "not_found", message: "not found",
		matches: []error{
			ErrNotFound,
			orderdomain.ErrNotFound,
			menudomain.ErrNotFound,
			ingredientdomain.ErrNotFound,
			machinedomain.ErrNotFound,
		},
	},
	{
		status: http.StatusTooManyRequests, kind: "rate_limited", message: "too many requests",
		matches: []error{ErrRateLimited},
	},
	{
		status: http.StatusServiceUnavailable, kind: "service_unavailable", message: "service unavailable",
		matches: []error{ErrServiceUnavailable, jsonstore.ErrLocked},
	},
}

// validationSentinels surface as 400 with the sentinel text as the code.
var validationSentinels = []error{
	ErrInvalidRequest,
	orderdomain.ErrInvalidID,
	orderdomain.ErrInvalidItems,
	orderdomain.ErrInvalidQuantity,
	orderdomain.ErrInvalidItemType,
	orderdomain.ErrInvalidSize,
	orderdomain.ErrInvalidFlavors,
	orderdomain.ErrInvalidAmount,
	orderdomain.ErrInvalidStatus,
	menudomain.ErrInvalidID,
	menudomain.ErrInvalidName,
	menudomain.ErrInvalidPrice,
	ingredientdomain.ErrInvalidID,
	ingredientdomain.ErrInvalidStock,
	machinedomain.ErrInvalidID,
	machinedomain.ErrInvalidStatus,
	machinedomain.ErrInvalidHours,
	machinedomain.ErrInvalidDate,
	stockledgerdomain.ErrInvalidStatus,
	stockledgerdomain.ErrInvalidPageToken,
}

var internalPayload = errorPayload{Type: "internal_error", Message: "internal server error"}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, internalPayload
	}

	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, validationPayload(vErr.Errors...)
	}
	if sentinel := matchAny(err, validationSentinels); sentinel != nil {
		code := sentinel.Error()
		field := strings.TrimPrefix(code, "invalid_")
		message := "invalid value"
		if sentinel == ErrInvalidRequest {
			field, message = "request", "invalid request"
		}
		return http.StatusBadRequest, validationPayload(ValidationError{Field: field, Code: code, Message: message})
	}

	for _, class := range errorClasses {
		if matchAny(err, class.matches) != nil {
			return class.status, errorPayload{Type: class.kind, Message: class.message}
		}
	}
	return http.StatusInternalServerError, internalPayload
}

func validationPayload(errs ...ValidationError) errorPayload {
	return errorPayload{Type: "validation_error", Message: "validation error", Errors: errs}
}

func matchAny(err error, targets []error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return target
		}
	}
	return nil
}

// classifyErrorForLog returns the error type and code the request logger records.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	if status >= http.StatusInternalServerError && errors.Is(err, jsonstore.ErrPersistence) {
		code = "persistence"
	}
	return payload.Type, code
}
