package handler

import (
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// BankHandler lists payout banks and resolves accounts
type BankHandler struct {
	directory    gateway.BankDirectory
	country      string
	timeProvider coreport.TimeProvider
	timeout      coreport.Duration
	logger       coreport.Logger
}

// NewBankHandler creates a new bank handler instance
func NewBankHandler(directory gateway.BankDirectory, country string, timeProvider coreport.TimeProvider, timeout coreport.Duration, logger coreport.Logger) *BankHandler {
	return &BankHandler{
		directory:    directory,
		country:      country,
		timeProvider: timeProvider,
		timeout:      timeout,
		logger:       logger,
	}
}

// ListBanks handles GET /banks
func (h *BankHandler) ListBanks(c *gin.Context) {
	ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	banks, err := h.directory.ListBanks(ctx, h.country)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := make([]dto.BankResponse, 0, len(banks))
	for _, bank := range banks {
		response = append(response, dto.BankResponse{Name: bank.Name, Code: bank.Code})
	}
	c.JSON(http.StatusOK, response)
}

// ResolveAccount handles GET /banks/resolve?account_number&bank_code
func (h *BankHandler) ResolveAccount(c *gin.Context) {
	accountNumber := c.Query("account_number")
	bankCode := c.Query("bank_code")
	if err := entity.ValidateWalletNumber(accountNumber); err != nil || bankCode == "" {
		// NUBAN account numbers share the 10-digit wallet number format
		_ = c.Error(domainerr.ErrInvalidRequest)
		return
	}

	ctx, cancel := h.timeProvider.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	account, err := h.directory.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		h.logger.Warn("Could not resolve account", map[string]any{
			"bank_code": bankCode,
			"error":     err.Error(),
		})
		_ = c.Error(domainerr.ErrAccountNotResolved)
		return
	}

	c.JSON(http.StatusOK, dto.ResolveAccountResponse{
		AccountName:   account.AccountName,
		AccountNumber: account.AccountNumber,
		BankID:        strconv.FormatInt(account.BankID, 10),
	})
}
