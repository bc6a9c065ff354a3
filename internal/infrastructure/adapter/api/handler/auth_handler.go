package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles account security requests
type AuthHandler struct {
	users  usecase.UserUseCase
	logger coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(users usecase.UserUseCase, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// SetPIN handles POST /auth/set-pin
func (h *AuthHandler) SetPIN(c *gin.Context) {
	var req dto.SetPINRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.users.SetPIN(c.Request.Context(), userID(c), req.PIN); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Transaction PIN set successfully"})
}
