package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/CelestialBrain/sms-scheduler/internal/api/dto"
	"github.com/CelestialBrain/sms-scheduler/internal/api/respond"
	"github.com/CelestialBrain/sms-scheduler/internal/model"
	msgrepo "github.com/CelestialBrain/sms-scheduler/internal/repository/message"
	msgsvc "github.com/CelestialBrain/sms-scheduler/internal/service/message"
	"github.com/CelestialBrain/sms-scheduler/internal/validation"
)

//go:generate mockgen -source=handler.go -destination=../../../mocks/api/handlers/message/mock.go -package=mocks

type messageService interface {
	Schedule(ctx context.Context, in msgsvc.ScheduleInput) (model.ScheduledMessage, error)
	Update(ctx context.Context, id uuid.UUID, in msgsvc.UpdateInput) (model.ScheduledMessage, error)
	Cancel(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (model.ScheduledMessage, error)
	Reschedule(ctx context.Context, id uuid.UUID, at time.Time) (model.ScheduledMessage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (model.ScheduledMessage, error)
	List(ctx context.Context, activeOnly bool) ([]model.ScheduledMessage, error)
	ListByStatus(ctx context.Context, status model.Status) ([]model.ScheduledMessage, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]model.ScheduledMessage, error)
	GetStatus(ctx context.Context, id uuid.UUID) (model.Status, error)
}

// Handler exposes scheduled-message operations over HTTP.
type Handler struct {
	service   messageService
	validator *validator.Validate
}

// NewHandler builds a message handler.
func NewHandler(s messageService, v *validator.Validate) *Handler {
	return &Handler{service: s, validator: v}
}

// Schedule handles POST /api/messages.
func (h *Handler) Schedule(c *ginext.Context) {
	var req dto.ScheduleRequest

	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid scheduled_at: must be RFC3339"))
		return
	}

	in := msgsvc.ScheduleInput{
		Recipient:   req.Recipient,
		Body:        req.Body,
		ScheduledAt: scheduledAt,
		Tags:        req.Tags,
		Priority:    req.Priority,
		SenderName:  req.SenderName,
	}

	if req.CustomerID != "" {
		customerID, err := uuid.Parse(req.CustomerID)
		if err != nil {
			respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid customer_id"))
			return
		}
		in.CustomerID = &customerID
	}

	msg, err := h.service.Schedule(c.Request.Context(), in)
	if err != nil {
		if isValidationErr(err) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to schedule message")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.Created(c.Writer, msg)
}

// List handles GET /api/messages. ?active=true narrows to active records.
func (h *Handler) List(c *ginext.Context) {
	activeOnly := c.Query("active") == "true"

	msgs, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to list messages")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, msgs)
}

// Get handles GET /api/messages/:id.
func (h *Handler) Get(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	msg, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.failLookup(c, id, err, "failed to get message")
		return
	}

	respond.OK(c.Writer, msg)
}

// GetStatus handles GET /api/messages/:id/status.
func (h *Handler) GetStatus(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), id)
	if err != nil {
		h.failLookup(c, id, err, "failed to get message status")
		return
	}

	respond.OK(c.Writer, map[string]string{
		"status":      string(status),
		"description": status.Description(),
	})
}

// Update handles PUT /api/messages/:id.
func (h *Handler) Update(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to decode request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		zlog.Logger.Warn().Err(err).Msg("failed to validate request body")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid scheduled_at: must be RFC3339"))
		return
	}

	msg, err := h.service.Update(c.Request.Context(), id, msgsvc.UpdateInput{
		Recipient:   req.Recipient,
		Body:        req.Body,
		ScheduledAt: scheduledAt,
		Tags:        req.Tags,
		Priority:    req.Priority,
		SenderName:  req.SenderName,
	})
	if err != nil {
		if isValidationErr(err) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}
		h.failLookup(c, id, err, "failed to update message")
		return
	}

	respond.OK(c.Writer, msg)
}

// Cancel handles POST /api/messages/:id/cancel.
func (h *Handler) Cancel(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	msg, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, msgsvc.ErrAlreadyTerminal) {
			respond.Fail(c.Writer, http.StatusConflict, err)
			return
		}
		h.failLookup(c, id, err, "failed to cancel message")
		return
	}

	respond.OK(c.Writer, msg)
}

// Enable handles POST /api/messages/:id/enable.
func (h *Handler) Enable(c *ginext.Context) {
	h.setActive(c, true)
}

// Disable handles POST /api/messages/:id/disable.
func (h *Handler) Disable(c *ginext.Context) {
	h.setActive(c, false)
}

func (h *Handler) setActive(c *ginext.Context, active bool) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	msg, err := h.service.SetActive(c.Request.Context(), id, active)
	if err != nil {
		h.failLookup(c, id, err, "failed to toggle message")
		return
	}

	respond.OK(c.Writer, msg)
}

// Reschedule handles POST /api/messages/:id/reschedule.
func (h *Handler) Reschedule(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.RescheduleRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid request body"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("validation error: %s", err.Error()))
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid scheduled_at: must be RFC3339"))
		return
	}

	msg, err := h.service.Reschedule(c.Request.Context(), id, scheduledAt)
	if err != nil {
		switch {
		case errors.Is(err, msgsvc.ErrNotFailed), errors.Is(err, msgsvc.ErrPastSchedule):
			respond.Fail(c.Writer, http.StatusConflict, err)
		default:
			h.failLookup(c, id, err, "failed to reschedule message")
		}
		return
	}

	respond.OK(c.Writer, msg)
}

// Delete handles DELETE /api/messages/:id.
func (h *Handler) Delete(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.failLookup(c, id, err, "failed to delete message")
		return
	}

	respond.NoContent(c.Writer)
}

// ListByStatus handles GET /api/messages/status/:status.
func (h *Handler) ListByStatus(c *ginext.Context) {
	status := model.Status(c.Param("status"))

	msgs, err := h.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		if errors.Is(err, msgsvc.ErrInvalidStatus) {
			respond.Fail(c.Writer, http.StatusBadRequest, err)
			return
		}

		zlog.Logger.Error().Err(err).Msg("failed to list messages by status")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, msgs)
}

// ListForCustomer handles GET /api/customers/:id/messages.
func (h *Handler) ListForCustomer(c *ginext.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	msgs, err := h.service.ListForCustomer(c.Request.Context(), id)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("customer_id", id.String()).Msg("failed to list customer messages")
		respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}

	respond.OK(c.Writer, msgs)
}

func (h *Handler) parseID(c *ginext.Context) (uuid.UUID, bool) {
	idStr := c.Param("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		zlog.Logger.Warn().Err(err).Str("id", idStr).Msg("failed to parse id")
		respond.Fail(c.Writer, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) failLookup(c *ginext.Context, id uuid.UUID, err error, logMsg string) {
	if errors.Is(err, msgrepo.ErrMessageNotFound) {
		respond.Fail(c.Writer, http.StatusNotFound, fmt.Errorf("message not found"))
		return
	}

	zlog.Logger.Error().Err(err).Str("id", id.String()).Msg(logMsg)
	respond.Fail(c.Writer, http.StatusInternalServerError, fmt.Errorf("internal server error"))
}

func isValidationErr(err error) bool {
	return errors.Is(err, msgsvc.ErrEmptyBody) ||
		errors.Is(err, msgsvc.ErrPastSchedule) ||
		errors.Is(err, validation.ErrInvalidPhone)
}
