package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avolkov-dev/recipehub/internal/events"
	"github.com/avolkov-dev/recipehub/internal/logging"
	"github.com/avolkov-dev/recipehub/internal/models"
)

// getUserIDFromContext returns the authenticated user's ID, or 0 when the
// request is anonymous.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// publishEvent sends a domain event keyed by the acting user. Event delivery
// is best-effort; failures are logged and never surfaced to the client.
func publishEvent(c echo.Context, producer *events.Producer, userID uint, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, formatUint(userID), event); err != nil {
		logging.FromContext(ctx).Error("event publish failed", "error", err)
	}
}
