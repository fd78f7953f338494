package escrow

import (
	"github.com/google/uuid"
	"github.com/innofund/escrow/pkg/domain/ledger"
	"github.com/innofund/escrow/pkg/money"
)

// newPoolTransaction documents a pool-level movement that touches no
// wallet (escrow lock, escrow return).
func newPoolTransaction(projectID, escrowID uuid.UUID, txType ledger.Type, amount money.Money, notes string) *ledger.Transaction {
	return ledger.NewCompleted(nil, &projectID, &escrowID, txType, amount, notes)
}

// newWalletTransaction documents a movement into a wallet (escrow
// release, partial release).
func newWalletTransaction(walletID, projectID, escrowID uuid.UUID, txType ledger.Type, amount money.Money, notes string) *ledger.Transaction {
	return ledger.NewCompleted(&walletID, &projectID, &escrowID, txType, amount, notes)
}
