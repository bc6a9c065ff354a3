package handler

import (
	"net/http"
	"strconv"

	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/entity"
	domainerr "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the client's idempotency key for transfers and withdrawals
const IdempotencyKeyHeader = "Idempotency-Key"

// ReplayedHeader is set on responses served from a stored outcome
const ReplayedHeader = "Idempotent-Replayed"

// WalletHandler handles wallet HTTP requests
type WalletHandler struct {
	wallet       usecase.WalletUseCase
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(wallet usecase.WalletUseCase, timeProvider coreport.TimeProvider, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		wallet:       wallet,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// userID returns the authenticated user. Routes are always behind Authenticate.
func userID(c *gin.Context) string {
	principal, _ := middleware.PrincipalFrom(c)
	return principal.UserID
}

// bindJSON binds the body or records ErrInvalidRequest
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		_ = c.Error(domainerr.ErrInvalidRequest)
		return false
	}
	return true
}

// Deposit handles POST /wallet/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if !bindJSON(c, &req) {
		return
	}

	checkout, err := h.wallet.InitiateDeposit(c.Request.Context(), userID(c), req.Amount)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.DepositResponse{
		AuthorizationURL: checkout.AuthorizationURL,
		Reference:        checkout.Reference,
	})
}

// DepositStatus handles GET /wallet/deposit/:reference/status
func (h *WalletHandler) DepositStatus(c *gin.Context) {
	status, err := h.wallet.DepositStatus(c.Request.Context(), userID(c), c.Param("reference"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DepositStatusResponse{
		Reference: status.Reference,
		Status:    string(status.Status),
		Amount:    status.Amount,
		Note:      status.Note,
	})
}

// Transfer handles POST /wallet/transfer
func (h *WalletHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.wallet.Transfer(c.Request.Context(), usecase.TransferCommand{
		UserID:                userID(c),
		RecipientWalletNumber: req.WalletNumber,
		Amount:                req.Amount,
		PIN:                   req.PIN,
		IdempotencyKey:        c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.movement(c, result)
}

// Withdraw handles POST /wallet/withdraw
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.wallet.Withdraw(c.Request.Context(), usecase.WithdrawCommand{
		UserID:         userID(c),
		Amount:         req.Amount,
		AccountNumber:  req.AccountNumber,
		BankCode:       req.BankCode,
		AccountName:    req.AccountName,
		PIN:            req.PIN,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.movement(c, result)
}

func (h *WalletHandler) movement(c *gin.Context, result *usecase.MovementResult) {
	if result.Replayed {
		c.Header(ReplayedHeader, "true")
	}
	c.JSON(http.StatusOK, dto.MovementResponse{
		Status:    string(result.Outcome.Status),
		Message:   result.Outcome.Message,
		Reference: result.Outcome.Reference,
	})
}

// Balance handles GET /wallet/balance
func (h *WalletHandler) Balance(c *gin.Context) {
	balance, err := h.wallet.GetBalance(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Balance:   balance.Balance,
		Formatted: entity.FormatMinorUnits(balance.Balance),
		Currency:  balance.Currency,
	})
}

// Transactions handles GET /wallet/transactions?skip&limit
func (h *WalletHandler) Transactions(c *gin.Context) {
	skip, err := queryInt(c, "skip")
	if err != nil {
		_ = c.Error(err)
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := h.wallet.ListTransactions(c.Request.Context(), userID(c), skip, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(page.Transactions)),
		Skip:         page.Skip,
		Limit:        page.Limit,
	}
	for _, txn := range page.Transactions {
		response.Transactions = append(response.Transactions, dto.NewTransactionResponse(txn))
	}
	c.JSON(http.StatusOK, response)
}

// Audit handles GET /wallet/audit
func (h *WalletHandler) Audit(c *gin.Context) {
	audit, err := h.wallet.AuditWallet(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.AuditResponse{
		WalletID:      audit.WalletID,
		CachedBalance: audit.CachedBalance,
		LedgerBalance: audit.LedgerBalance,
		EntryCount:    audit.EntryCount,
		Consistent:    audit.Consistent(),
		CheckedAt:     h.timeProvider.Now(),
	})
}

// queryInt reads an optional integer query parameter. Absent means zero.
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerr.ErrInvalidPagination
	}
	return n, nil
}
