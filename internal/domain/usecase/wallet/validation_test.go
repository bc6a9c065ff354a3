package wallet

import (
	"testing"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator(20, 100)

	t.Run("ValidateTransfer", func(t *testing.T) {
		tests := []struct {
			name          string
			cmd           usecase.TransferCommand
			expectedError error
		}{
			{
				name: "Valid",
				cmd:  usecase.TransferCommand{UserID: "u1", RecipientWalletNumber: "0123456789", Amount: 1, PIN: "1234"},
			},
			{
				name:          "Missing user",
				cmd:           usecase.TransferCommand{RecipientWalletNumber: "0123456789", Amount: 1},
				expectedError: errs.ErrUnauthenticated,
			},
			{
				name:          "Zero amount",
				cmd:           usecase.TransferCommand{UserID: "u1", RecipientWalletNumber: "0123456789"},
				expectedError: errs.ErrInvalidAmount,
			},
			{
				name:          "Letters in wallet number",
				cmd:           usecase.TransferCommand{UserID: "u1", RecipientWalletNumber: "01234abcde", Amount: 1},
				expectedError: errs.ErrInvalidWalletNumber,
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := v.ValidateTransfer(tt.cmd)
				if tt.expectedError == nil {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, tt.expectedError)
			})
		}
	})

	t.Run("ValidateWithdraw", func(t *testing.T) {
		valid := usecase.WithdrawCommand{UserID: "u1", Amount: 10, AccountNumber: "0123456789", BankCode: "058", AccountName: "Ada"}
		assert.NoError(t, v.ValidateWithdraw(valid))

		missingName := valid
		missingName.AccountName = "  "
		assert.ErrorIs(t, v.ValidateWithdraw(missingName), errs.ErrInvalidRequest)

		negative := valid
		negative.Amount = -10
		assert.ErrorIs(t, v.ValidateWithdraw(negative), errs.ErrInvalidAmount)
	})

	t.Run("NormalizePage", func(t *testing.T) {
		skip, limit, err := v.NormalizePage(0, 0)
		assert.NoError(t, err)
		assert.Equal(t, 0, skip)
		assert.Equal(t, 20, limit)

		_, limit, err = v.NormalizePage(5, 100)
		assert.NoError(t, err)
		assert.Equal(t, 100, limit)

		_, _, err = v.NormalizePage(0, 101)
		assert.ErrorIs(t, err, errs.ErrInvalidPagination)
	})
}
