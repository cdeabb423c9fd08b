package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain"
	"github.com/jhoicas/smd-api/pkg/logger"
)

// respondError traduce errores de dominio a {code, message} con su status HTTP.
// Lo no reconocido es INTERNAL y se registra sin exponer el detalle.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var exceeded *domain.ShareExceededError
	if errors.As(err, &exceeded) {
		remaining := exceeded.Remaining
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "SHARE_EXCEEDED",
			Message:   exceeded.Error(),
			Remaining: &remaining,
			SMDID:     exceeded.DeviceID,
		})
	}

	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "internal server error"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", detail(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrIneligible):
		status, code, msg = fiber.StatusBadRequest, "CUSTOMER_INELIGIBLE", "customer account or profile is not active"
	case errors.Is(err, domain.ErrInvalidMarketer):
		status, code, msg = fiber.StatusBadRequest, "INVALID_MARKETER", "marketer not found or not active"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid token"
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", "access denied"
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", detail(err, domain.ErrNotFound)
	case errors.Is(err, domain.ErrAlreadyContracted):
		status, code, msg = fiber.StatusConflict, "ALREADY_CONTRACTED", err.Error()
	case errors.Is(err, domain.ErrAmbiguousContract):
		status, code, msg = fiber.StatusConflict, "AMBIGUOUS_CONTRACT", "more than one active closing matches this SMD and customer; send smd_closing_id"
	case errors.Is(err, domain.ErrDuplicatePayout):
		status, code, msg = fiber.StatusConflict, "DUPLICATE_PAYOUT", "payout for this month already recorded"
	case errors.Is(err, domain.ErrClosingNotActive):
		status, code, msg = fiber.StatusConflict, "CLOSING_NOT_ACTIVE", "closing is not active"
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		status, code, msg = fiber.StatusConflict, "CONFLICT", err.Error()
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// detail mensaje sin el prefijo del sentinel ("invalid input: amount must..." -> "amount must...").
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invalid request body"})
}
