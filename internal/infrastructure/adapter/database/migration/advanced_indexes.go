package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific advanced indexes
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

var advancedIndexes = []struct {
	name string
	sql  string
}{
	{
		// Status polling and reconciliation only look at open records
		name: "idx_transactions_pending",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_pending
			ON transactions (type, created_at)
			WHERE status = 'pending'`,
	},
	{
		name: "idx_ledger_entries_created_at_brin",
		sql: `CREATE INDEX IF NOT EXISTS idx_ledger_entries_created_at_brin
			ON ledger_entries USING BRIN (created_at)
			WITH (pages_per_range = 32)`,
	},
	{
		name: "idx_ledger_entries_wallet_amount",
		sql: `CREATE INDEX IF NOT EXISTS idx_ledger_entries_wallet_amount
			ON ledger_entries (wallet_id) INCLUDE (amount)`,
	},
}

// CreateAdvancedIndexes creates advanced PostgreSQL indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	for _, idx := range advancedIndexes {
		if err := m.db.WithContext(ctx).Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// ApplyPerformanceTweaks applies PostgreSQL storage settings. Failures are logged only.
func (m *AdvancedIndexManager) ApplyPerformanceTweaks(ctx context.Context) {
	// Balance updates are frequent; leave room for HOT updates
	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE wallets SET (fillfactor = 85)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for wallets table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE ledger_entries ALTER COLUMN wallet_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for ledger_entries.wallet_id", map[string]any{
			"error": err.Error(),
		})
	}
}
