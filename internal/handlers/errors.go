package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// respondError translates service errors into API error responses.
// Anything unrecognized is logged and answered with an opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidTaskAssignee),
		errors.Is(err, services.ErrUserIDRequired),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, services.ErrAITooManyTasks):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrVersionConflict),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())

	case errors.Is(err, services.ErrNothingToExport):
		apierrors.NoData(c, err.Error())

	case errors.Is(err, services.ErrAIServiceNotConfigured),
		errors.Is(err, services.ErrAIUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		middleware.RequestLog(c).WithError(err).Error("request failed")
		apierrors.InternalError(c, "")
	}
}

// currentActor reads the authenticated principal or answers 401
func currentActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return services.Actor{}, false
	}
	return actor, true
}
