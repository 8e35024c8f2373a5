package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"postboard/internal/middleware"
	"postboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

var errInvalidBody = models.NewValidationError("Invalid request body")

// parsePostID extracts the :id route parameter as a positive integer. Anything
// else can never match a row, so it is answered like a miss: a 404 naming the
// raw value. Callers should check: if err != nil { return nil }
func parsePostID(c *fiber.Ctx) (uint, error) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundError("Post", raw))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// decodeBody strictly decodes a JSON object body into dst. Unknown fields,
// trailing data and non-object bodies are rejected with a 400.
// Callers should check: if err != nil { return nil }
func decodeBody(c *fiber.Ctx, dst any) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '{' {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, errInvalidBody)
		return errResponseWritten
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil || dec.More() {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, errInvalidBody)
		return errResponseWritten
	}
	return nil
}

// respondError writes err with the status its code maps to. Internal causes
// are logged here and never reach the client.
func respondError(c *fiber.Ctx, op string, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "post operation failed",
			"operation", op,
			"error", err,
		)
	}
	return models.RespondWithError(c, status, err)
}
