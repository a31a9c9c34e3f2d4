package entities

import (
	"fmt"
	"time"
)

// Transaction is one immutable row in a profile's coin ledger. Amounts are
// signed: credits positive, debits negative. Every balance change on a
// profile is recorded here, so summing a profile's transactions always
// reproduces its current balance.
type Transaction struct {
	ID            int64           `db:"id"`
	ProfileID     int64           `db:"profile_id"`
	Type          TransactionType `db:"type"`
	Amount        int64           `db:"amount"`
	BalanceBefore int64           `db:"balance_before"`
	BalanceAfter  int64           `db:"balance_after"`
	RelatedID     *int64          `db:"related_id"`
	RelatedType   *string         `db:"related_type"`
	CreatedAt     time.Time       `db:"created_at"`
}

// Validate checks internal consistency of the ledger entry
func (t *Transaction) Validate() error {
	if t.Amount == 0 {
		return fmt.Errorf("transaction amount must be non-zero")
	}
	if t.BalanceAfter != t.BalanceBefore+t.Amount {
		return fmt.Errorf("transaction balance mismatch: %d + %d != %d",
			t.BalanceBefore, t.Amount, t.BalanceAfter)
	}
	if t.BalanceAfter < 0 {
		return fmt.Errorf("transaction results in negative balance: %d", t.BalanceAfter)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("unknown transaction type: %s", t.Type)
	}
	return nil
}

// IsCredit checks if the entry increased the balance
func (t *Transaction) IsCredit() bool {
	return t.Amount > 0
}
