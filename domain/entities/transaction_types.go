package entities

// TransactionType classifies ledger entries
type TransactionType string

const (
	TransactionTypeSignupBonus       TransactionType = "signup_bonus"
	TransactionTypeDailyBonus        TransactionType = "daily_bonus"
	TransactionTypeBetPlaced         TransactionType = "bet_placed"
	TransactionTypeBetWon            TransactionType = "bet_won"
	TransactionTypeBetRefund         TransactionType = "bet_refund"
	TransactionTypeChallengeSent     TransactionType = "challenge_sent"
	TransactionTypeChallengeAccepted TransactionType = "challenge_accepted"
	TransactionTypeChallengeWon      TransactionType = "challenge_won"
	TransactionTypeChallengeRefund   TransactionType = "challenge_refund"
)

// Related entity types for polymorphic ledger references
const (
	RelatedTypeBet       = "bet"
	RelatedTypeChallenge = "challenge"
	RelatedTypeMarket    = "market"
)

// IsValid checks the type is a known ledger classification
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSignupBonus, TransactionTypeDailyBonus,
		TransactionTypeBetPlaced, TransactionTypeBetWon, TransactionTypeBetRefund,
		TransactionTypeChallengeSent, TransactionTypeChallengeAccepted,
		TransactionTypeChallengeWon, TransactionTypeChallengeRefund:
		return true
	}
	return false
}
