package api

import (
	"time"

	"plottwist/domain/entities"
)

// Response shapes. Profiles never expose their API token except in the
// registration response.

type profileResponse struct {
	ID         int64     `json:"id"`
	Handle     string    `json:"handle"`
	Coins      int64     `json:"coins"`
	Reputation int64     `json:"reputation"`
	Country    string    `json:"country,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type registerResponse struct {
	profileResponse
	APIToken string `json:"api_token"`
}

type marketResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatorID   int64      `json:"creator_id"`
	Mode        string     `json:"mode"`
	Visibility  string     `json:"visibility"`
	Status      string     `json:"status"`
	Deadline    time.Time  `json:"deadline"`
	TotalYes    int64      `json:"total_yes"`
	TotalNo     int64      `json:"total_no"`
	TotalPool   int64      `json:"total_pool"`
	Outcome     string     `json:"outcome,omitempty"`
	Disputed    bool       `json:"disputed"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type betResponse struct {
	ID        int64     `json:"id"`
	MarketID  int64     `json:"market_id"`
	ProfileID int64     `json:"profile_id"`
	Position  string    `json:"position"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type challengeResponse struct {
	ID           int64      `json:"id"`
	MarketID     int64      `json:"market_id"`
	ChallengerID int64      `json:"challenger_id"`
	ChallengedID int64      `json:"challenged_id"`
	Position     string     `json:"position"`
	Amount       int64      `json:"amount"`
	Status       string     `json:"status"`
	WinnerID     *int64     `json:"winner_id,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type transactionResponse struct {
	ID            int64     `json:"id"`
	Type          string    `json:"type"`
	Amount        int64     `json:"amount"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

type settlementResponse struct {
	Market    marketResponse  `json:"market"`
	Outcome   string          `json:"outcome"`
	Winners   int             `json:"winners"`
	TotalPaid int64           `json:"total_paid"`
	Payouts   map[int64]int64 `json:"payouts"`
}

type disputeResponse struct {
	ID        int64     `json:"id"`
	MarketID  int64     `json:"market_id"`
	ProfileID int64     `json:"profile_id"`
	Vote      string    `json:"vote"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type clanResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Tag       string    `json:"tag"`
	CreatorID int64     `json:"creator_id"`
	XP        int64     `json:"xp"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfileResponse(p *entities.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		Handle:     p.Handle,
		Coins:      p.Coins,
		Reputation: p.Reputation,
		Country:    p.Country,
		CreatedAt:  p.CreatedAt,
	}
}

func toMarketResponse(m *entities.Market) marketResponse {
	var outcome string
	if resolved, ok := m.Outcome(); ok {
		outcome = string(resolved)
	}
	return marketResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		CreatorID:   m.CreatorID,
		Mode:        string(m.Mode),
		Visibility:  string(m.Visibility),
		Status:      string(m.Status),
		Deadline:    m.Deadline,
		TotalYes:    m.TotalYes,
		TotalNo:     m.TotalNo,
		TotalPool:   m.TotalPool(),
		Outcome:     outcome,
		Disputed:    m.Disputed,
		ResolvedAt:  m.ResolvedAt,
		CreatedAt:   m.CreatedAt,
	}
}

func toBetResponse(b *entities.Bet) betResponse {
	return betResponse{
		ID:        b.ID,
		MarketID:  b.MarketID,
		ProfileID: b.ProfileID,
		Position:  string(b.Position),
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

func toChallengeResponse(ch *entities.Challenge) challengeResponse {
	return challengeResponse{
		ID:           ch.ID,
		MarketID:     ch.MarketID,
		ChallengerID: ch.ChallengerID,
		ChallengedID: ch.ChallengedID,
		Position:     string(ch.Position),
		Amount:       ch.Amount,
		Status:       string(ch.Status),
		WinnerID:     ch.WinnerID,
		RespondedAt:  ch.RespondedAt,
		ResolvedAt:   ch.ResolvedAt,
		CreatedAt:    ch.CreatedAt,
	}
}

func toTransactionResponse(t *entities.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		CreatedAt:     t.CreatedAt,
	}
}

func toClanResponse(cl *entities.Clan) clanResponse {
	return clanResponse{
		ID:        cl.ID,
		Name:      cl.Name,
		Tag:       cl.Tag,
		CreatorID: cl.CreatorID,
		XP:        cl.XP,
		Level:     cl.Level(),
		CreatedAt: cl.CreatedAt,
	}
}

func toMarketResponses(markets []*entities.Market) []marketResponse {
	out := make([]marketResponse, 0, len(markets))
	for _, m := range markets {
		out = append(out, toMarketResponse(m))
	}
	return out
}

func toBetResponses(bets []*entities.Bet) []betResponse {
	out := make([]betResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, toBetResponse(b))
	}
	return out
}

func toChallengeResponses(challenges []*entities.Challenge) []challengeResponse {
	out := make([]challengeResponse, 0, len(challenges))
	for _, ch := range challenges {
		out = append(out, toChallengeResponse(ch))
	}
	return out
}

func toProfileResponses(profiles []*entities.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return out
}

func toClanResponses(clans []*entities.Clan) []clanResponse {
	out := make([]clanResponse, 0, len(clans))
	for _, cl := range clans {
		out = append(out, toClanResponse(cl))
	}
	return out
}
