package dto

// DepositRequest starts a deposit of amount minor units
type DepositRequest struct {
	Amount int64 `json:"amount"`
}

// DepositResponse points the client at the gateway checkout
type DepositResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// DepositStatusResponse is the reconciled state of a deposit
type DepositStatusResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note,omitempty"`
}

// TransferRequest moves funds to another wallet
type TransferRequest struct {
	WalletNumber string `json:"wallet_number" binding:"required"`
	Amount       int64  `json:"amount"`
	PIN          string `json:"pin" binding:"required"`
}

// WithdrawRequest pays funds out to a bank account
type WithdrawRequest struct {
	Amount        int64  `json:"amount"`
	AccountNumber string `json:"account_number" binding:"required"`
	BankCode      string `json:"bank_code" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
	PIN           string `json:"pin" binding:"required"`
}

// MovementResponse is the outcome of a transfer or withdrawal
type MovementResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Reference string `json:"reference"`
}

// WebhookResponse acknowledges a gateway notification
type WebhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
