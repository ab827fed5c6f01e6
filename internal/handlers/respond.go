package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/plotpilot/api/internal/errors"
	"github.com/stwalsh4118/plotpilot/api/internal/services"
)

// bindingFailed writes the response for a failed ShouldBind* call.
func bindingFailed(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return
	}
	apierrors.BadRequest(c, message, nil)
}

// serviceFailed maps a service error onto the error envelope. fallback is
// the client message for unexpected errors.
func serviceFailed(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrDataNotLoaded):
		apierrors.ServiceUnavailable(c, "Plot data is not loaded", err)
	case errors.Is(err, services.ErrPlotNotFound):
		apierrors.NotFound(c, "Plot not found")
	case errors.Is(err, services.ErrRequestNotFound):
		apierrors.NotFound(c, "Request not found")
	case errors.Is(err, services.ErrWorkOrderNotFound):
		apierrors.NotFound(c, "Work order not found")
	case errors.Is(err, services.ErrIssueNotFound):
		apierrors.NotFound(c, "Issue not found")
	case errors.Is(err, services.ErrInvalidPlotID),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidSortField),
		errors.Is(err, services.ErrInvalidViewMode),
		errors.Is(err, services.ErrInvalidYearRange):
		apierrors.BadRequest(c, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, fallback, err)
	}
}
