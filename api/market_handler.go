package api

import (
	"net/http"
	"strconv"
	"time"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/domain/services"

	"github.com/gin-gonic/gin"
)

type createMarketRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Mode        string    `json:"mode" binding:"required"`
	Visibility  string    `json:"visibility"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

type placeBetRequest struct {
	Position string `json:"position" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

type resolveRequest struct {
	Outcome string `json:"outcome" binding:"required"`
}

type disputeRequest struct {
	Vote   string `json:"vote" binding:"required"`
	Reason string `json:"reason"`
}

func (h *Handler) newMarketService(uow interfaces.UnitOfWork) interfaces.MarketService {
	return services.NewMarketService(
		uow.ProfileRepository(),
		uow.MarketRepository(),
		uow.BetRepository(),
		uow.ChallengeRepository(),
		uow.TransactionRepository(),
		uow.EventBus(),
	)
}

// ListMarkets returns public markets, optionally filtered by status
// GET /api/predictions?status=active&limit=25
func (h *Handler) ListMarkets(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	var status *entities.MarketStatus
	if raw := c.Query("status"); raw != "" {
		s := entities.MarketStatus(raw)
		status = &s
	}

	var markets []*entities.Market
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		markets, err = h.newMarketService(uow).ListMarkets(c.Request.Context(), status, limit)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"markets": toMarketResponses(markets)})
}

// CreateMarket creates a new market
// POST /api/predictions
func (h *Handler) CreateMarket(c *gin.Context) {
	var req createMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	visibility := entities.MarketVisibility(req.Visibility)
	if req.Visibility == "" {
		visibility = entities.MarketVisibilityPublic
	}

	profile := currentProfile(c)
	var market *entities.Market
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		market, err = h.newMarketService(uow).CreateMarket(
			c.Request.Context(),
			profile.ID,
			req.Title,
			req.Description,
			entities.MarketMode(req.Mode),
			visibility,
			req.Deadline,
		)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toMarketResponse(market))
}

// GetMarket returns a market with its bets
// GET /api/predictions/:id
func (h *Handler) GetMarket(c *gin.Context) {
	marketID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var detail *entities.MarketDetail
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		detail, err = h.newMarketService(uow).GetMarketDetail(c.Request.Context(), marketID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"market": toMarketResponse(detail.Market),
		"bets":   toBetResponses(detail.Bets),
	})
}

// PlaceBet stakes coins on one side of a market
// POST /api/predictions/:id/bet
func (h *Handler) PlaceBet(c *gin.Context) {
	marketID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	profile := currentProfile(c)
	var bet *entities.Bet
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewBettingService(
			uow.ProfileRepository(),
			uow.MarketRepository(),
			uow.BetRepository(),
			uow.TransactionRepository(),
			uow.ClanRepository(),
			uow.EventBus(),
			h.cfg.CreatorBetLimit,
		)
		var err error
		bet, err = svc.PlaceBet(c.Request.Context(), marketID, profile.ID, entities.Position(req.Position), req.Amount)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBetResponse(bet))
}

// ResolveMarket settles a market to an outcome
// POST /api/predictions/:id/resolve
func (h *Handler) ResolveMarket(c *gin.Context) {
	marketID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	profile := currentProfile(c)
	var result *entities.SettlementResult
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewSettlementService(
			uow.ProfileRepository(),
			uow.MarketRepository(),
			uow.BetRepository(),
			uow.ChallengeRepository(),
			uow.TransactionRepository(),
			uow.ClanRepository(),
			uow.EventBus(),
		)
		var err error
		result, err = svc.Resolve(c.Request.Context(), marketID, profile.ID, entities.Position(req.Outcome))
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settlementResponse{
		Market:    toMarketResponse(result.Market),
		Outcome:   string(result.Outcome),
		Winners:   result.Winners,
		TotalPaid: result.TotalPaid,
		Payouts:   result.Payouts,
	})
}

// CancelMarket voids a market, refunding all stakes
// POST /api/predictions/:id/cancel
func (h *Handler) CancelMarket(c *gin.Context) {
	marketID, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile := currentProfile(c)
	var market *entities.Market
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		market, err = h.newMarketService(uow).CancelMarket(c.Request.Context(), marketID, profile.ID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toMarketResponse(market))
}

// DisputeMarket flags a resolved market for review
// POST /api/predictions/:id/dispute
func (h *Handler) DisputeMarket(c *gin.Context) {
	marketID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req disputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	profile := currentProfile(c)
	var dispute *entities.Dispute
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewDisputeService(
			uow.ProfileRepository(),
			uow.MarketRepository(),
			uow.BetRepository(),
			uow.DisputeRepository(),
			uow.EventBus(),
			h.cfg.DisputeWindow(),
		)
		var err error
		dispute, err = svc.OpenDispute(c.Request.Context(), marketID, profile.ID, entities.Position(req.Vote), req.Reason)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, disputeResponse{
		ID:        dispute.ID,
		MarketID:  dispute.MarketID,
		ProfileID: dispute.ProfileID,
		Vote:      string(dispute.Vote),
		Reason:    dispute.Reason,
		CreatedAt: dispute.CreatedAt,
	})
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id", "code": "validation"})
		return 0, false
	}
	return id, true
}
