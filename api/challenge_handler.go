package api

import (
	"net/http"
	"strconv"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/domain/services"

	"github.com/gin-gonic/gin"
)

type createChallengeRequest struct {
	MarketID     int64  `json:"market_id" binding:"required"`
	ChallengedID int64  `json:"challenged_id" binding:"required"`
	Position     string `json:"position" binding:"required"`
	Amount       int64  `json:"amount" binding:"required"`
}

func (h *Handler) newChallengeService(uow interfaces.UnitOfWork) interfaces.ChallengeService {
	return services.NewChallengeService(
		uow.ProfileRepository(),
		uow.MarketRepository(),
		uow.ChallengeRepository(),
		uow.TransactionRepository(),
		uow.EventBus(),
	)
}

// ListChallenges returns challenges the authenticated profile sent or
// received
// GET /api/challenges?limit=25
func (h *Handler) ListChallenges(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	profile := currentProfile(c)
	var challenges []*entities.Challenge
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		challenges, err = h.newChallengeService(uow).ListChallenges(c.Request.Context(), profile.ID, limit)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": toChallengeResponses(challenges)})
}

// CreateChallenge proposes a head-to-head wager
// POST /api/challenges
func (h *Handler) CreateChallenge(c *gin.Context) {
	var req createChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	profile := currentProfile(c)
	var challenge *entities.Challenge
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		challenge, err = h.newChallengeService(uow).CreateChallenge(
			c.Request.Context(),
			req.MarketID,
			profile.ID,
			req.ChallengedID,
			entities.Position(req.Position),
			req.Amount,
		)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toChallengeResponse(challenge))
}

// AcceptChallenge escrows the responder's stake
// POST /api/challenges/:id/accept
func (h *Handler) AcceptChallenge(c *gin.Context) {
	h.respondToChallenge(c, true)
}

// DeclineChallenge refunds the challenger's stake
// POST /api/challenges/:id/decline
func (h *Handler) DeclineChallenge(c *gin.Context) {
	h.respondToChallenge(c, false)
}

func (h *Handler) respondToChallenge(c *gin.Context, accept bool) {
	challengeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile := currentProfile(c)
	var challenge *entities.Challenge
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		svc := h.newChallengeService(uow)
		var err error
		if accept {
			challenge, err = svc.AcceptChallenge(c.Request.Context(), challengeID, profile.ID)
		} else {
			challenge, err = svc.DeclineChallenge(c.Request.Context(), challengeID, profile.ID)
		}
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toChallengeResponse(challenge))
}
