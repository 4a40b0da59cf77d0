package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"algotix/internal/chain"
	"algotix/internal/logging"
)

const ledgerTimeout = 5 * time.Second

type AlgoController struct {
	ledger  Ledger
	appID   uint64
	assetID uint64
	log     logging.Logger
}

func NewAlgoController(l Ledger, appID, assetID uint64, log logging.Logger) *AlgoController {
	return &AlgoController{ledger: l, appID: appID, assetID: assetID, log: log}
}

type checkTicketRequest struct {
	Address string `json:"address" binding:"required"`
}

func (h *AlgoController) CheckTicket() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			validationFailed(c, err)
			return
		}
		if err := chain.ValidateAddress(req.Address); err != nil {
			fail(c, http.StatusBadRequest, "Invalid Algorand address")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), ledgerTimeout)
		defer cancel()
		ok, err := h.ledger.HoldsAsset(ctx, req.Address, h.assetID)
		if err != nil {
			if errors.Is(err, chain.ErrInvalidAddress) {
				fail(c, http.StatusBadRequest, "Invalid Algorand address")
				return
			}
			h.log.Error(ctx, "ticket check failed", "address", req.Address, "error", err)
			fail(c, http.StatusBadGateway, "Algorand node unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"has_ticket": ok})
	}
}

// Status reports node connectivity. An unreachable node is a normal
// response with connected=false.
func (h *AlgoController) Status() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), ledgerTimeout)
		defer cancel()
		round, err := h.ledger.LastRound(ctx)
		if err != nil {
			h.log.Warn(ctx, "algod status failed", "error", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"connected":  err == nil,
			"app_id":     h.appID,
			"asset_id":   h.assetID,
			"last_round": round,
		})
	}
}
