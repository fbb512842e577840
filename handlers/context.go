package handlers

import (
	"errors"
	"net/http"

	"fica_onboarding_go/config"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
)

// Package-level collaborators, wired once at startup. The chat service
// holds ephemeral typing/presence state so it must be a singleton.
var (
	Cfg  *config.Config
	Chat *services.ChatService
	Risk *services.RiskService
)

// Init wires the handler package's shared services
func Init(cfg *config.Config, chat *services.ChatService, risk *services.RiskService) {
	Cfg = cfg
	Chat = chat
	Risk = risk
}

// serviceError maps service-layer errors onto HTTP responses
func serviceError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrRoleNotAllowed),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotSender):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrCaseLocked),
		errors.Is(err, services.ErrTerminalStatus),
		errors.Is(err, services.ErrBadTransition):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrNoClientType),
		errors.Is(err, services.ErrReplyOtherConv),
		errors.Is(err, services.ErrDocumentTooBig),
		errors.Is(err, services.ErrDocumentType),
		errors.Is(err, services.ErrUnknownRequired):
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
