package api

import (
	"net/http"
	"strconv"

	"plottwist/domain/entities"
	"plottwist/domain/interfaces"
	"plottwist/domain/services"

	"github.com/gin-gonic/gin"
)

type createClanRequest struct {
	Name string `json:"name" binding:"required"`
	Tag  string `json:"tag" binding:"required"`
}

func (h *Handler) newClanService(uow interfaces.UnitOfWork) interfaces.ClanService {
	return services.NewClanService(uow.ProfileRepository(), uow.ClanRepository())
}

// ListClans returns clans ordered by XP
// GET /api/clans?limit=25
func (h *Handler) ListClans(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	var clans []*entities.Clan
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		clans, err = h.newClanService(uow).ListClans(c.Request.Context(), limit)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clans": toClanResponses(clans)})
}

// CreateClan creates a clan with the caller as first member
// POST /api/clans
func (h *Handler) CreateClan(c *gin.Context) {
	var req createClanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
		return
	}

	profile := currentProfile(c)
	var clan *entities.Clan
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		clan, err = h.newClanService(uow).CreateClan(c.Request.Context(), profile.ID, req.Name, req.Tag)
		return err
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toClanResponse(clan))
}

// JoinClan adds the caller to an existing clan
// POST /api/clans/:id/join
func (h *Handler) JoinClan(c *gin.Context) {
	clanID, ok := parseIDParam(c)
	if !ok {
		return
	}

	profile := currentProfile(c)
	err := h.runInTx(c.Request.Context(), func(uow interfaces.UnitOfWork) error {
		return h.newClanService(uow).JoinClan(c.Request.Context(), clanID, profile.ID)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"joined": true, "clan_id": clanID})
}
