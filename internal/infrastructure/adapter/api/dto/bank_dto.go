package dto

// BankResponse is one payout bank
type BankResponse struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// ResolveAccountResponse names the holder of a bank account
type ResolveAccountResponse struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankID        string `json:"bank_id"`
}

// HealthResponse reports service health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
