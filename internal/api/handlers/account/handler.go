package account

import (
	"context"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/api/respond"
	"github.com/CelestialBrain/sms-scheduler/pkg/semaphore"
)

type accountClient interface {
	GetAccount(ctx context.Context) (*semaphore.Account, error)
}

// Handler proxies gateway account status and balance.
type Handler struct {
	client accountClient
}

// NewHandler builds an account handler.
func NewHandler(client accountClient) *Handler {
	return &Handler{client: client}
}

// Get handles GET /api/account.
func (h *Handler) Get(c *ginext.Context) {
	acc, err := h.client.GetAccount(c.Request.Context())
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to get gateway account")
		respond.Fail(c.Writer, http.StatusBadGateway, fmt.Errorf("gateway unavailable"))
		return
	}

	respond.OK(c.Writer, acc)
}
