package middleware

import (
	"errors"
	"net/http"

	domainerr "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics and renders errors attached with c.Error.
// Handlers return right after c.Error; the response is written here.
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      recovered,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": c.GetString(RequestIDKey),
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(domainerr.ErrInternalServer))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := domainerr.HTTPStatus(err)

		fields := map[string]any{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"status":     status,
			"kind":       domainerr.KindOf(err).String(),
			"error":      err.Error(),
			"request_id": c.GetString(RequestIDKey),
		}
		if principal, ok := PrincipalFrom(c); ok {
			fields["user_id"] = principal.UserID
		}
		addLogFields(fields, err)

		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields)
		} else {
			logger.Debug("Request rejected", fields)
		}

		c.AbortWithStatusJSON(status, errorResponse(err))
	}
}

// errorResponse never exposes wrapped driver or provider text
func errorResponse(err error) dto.ErrorResponse {
	return dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Kind:    domainerr.KindOf(err).String(),
		Message: domainerr.PublicMessage(err),
	}
}

func addLogFields(fields map[string]any, err error) {
	var provider *domainerr.ProviderError
	if errors.As(err, &provider) {
		for k, v := range provider.LogFields() {
			fields[k] = v
		}
	}
	var consistency *domainerr.ConsistencyError
	if errors.As(err, &consistency) {
		for k, v := range consistency.LogFields() {
			fields[k] = v
		}
	}
}
