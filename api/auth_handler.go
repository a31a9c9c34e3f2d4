package api

import (
	"net/http"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/domain/services"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Handle  string `json:"handle" binding:"required"`
	Country string `json:"country"`
}

// Register creates a new profile with the signup bonus and returns its API
// token. The token is only ever returned here.
// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	var profile *entities.Profile
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		svc := services.NewProfileService(uow.ProfileRepository(), uow.TransactionRepository(), uow.EventBus(), h.cfg.SignupBonus)
		var err error
		profile, err = svc.Register(c.Request.Context(), req.Handle, req.Country)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		profileResponse: toProfileResponse(profile),
		APIToken:        profile.APIToken,
	})
}

// Me returns the authenticated profile with its recent ledger entries
// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	profile := currentProfile(c)

	var transactions []*entities.Transaction
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		transactions, err = uow.TransactionRepository().GetByProfile(c.Request.Context(), profile.ID, 20)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	txResponses := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		txResponses = append(txResponses, toTransactionResponse(tx))
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      toProfileResponse(profile),
		"transactions": txResponses,
	})
}
