package api

import (
	"net/http"
	"strconv"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/domain/services"

	"github.com/gin-gonic/gin"
)

// ClaimDailyBonus credits the daily bonus once per cooldown period
// POST /api/users/daily-bonus
func (h *Handler) ClaimDailyBonus(c *gin.Context) {
	profile := currentProfile(c)

	var tx *entities.Transaction
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewBonusService(uow.ProfileRepository(), uow.TransactionRepository(), uow.EventBus(), h.cfg.DailyBonus)
		var err error
		tx, err = svc.ClaimDaily(c.Request.Context(), profile.ID)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

// Leaderboard returns the top profiles by coin balance
// GET /api/users/leaderboard?limit=10
func (h *Handler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	profiles, err := h.leaderboard.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": toProfileResponses(profiles)})
}
