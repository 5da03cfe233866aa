package handler

import (
	"errors"
	"net/http"

	"spisovka/internal/domain"
	fmmodels "spisovka/internal/domain/models/filemanager"
	"spisovka/internal/domain/services"
	fm "spisovka/internal/domain/services/filemanager"
	"spisovka/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		conflictErr *domain.ConflictError
		confirmErr  *domain.ConfirmationRequiredError
		moveErr     *domain.MoveRejectedError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &confirmErr):
		httputil.RespondErrorWithExtras(w, confirmErr.StatusCode(), confirmErr.Error(), map[string]interface{}{
			"item_id":        confirmErr.ItemID,
			"item_name":      confirmErr.ItemName,
			"affected_count": confirmErr.AffectedCount,
		})
	case errors.As(err, &moveErr):
		httputil.RespondErrorWithExtras(w, moveErr.StatusCode(), moveErr.Error(), map[string]interface{}{
			"item_id":   moveErr.ItemID,
			"target_id": moveErr.TargetID,
			"reason":    moveErr.Reason,
		})
	case errors.As(err, &maxBytesErr):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrLocked):
		httputil.RespondError(w, http.StatusLocked, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// attachmentTarget reads the spis id and category from the path and the
// acting user from the context set by the auth middleware.
func attachmentTarget(r *http.Request) services.AttachmentTarget {
	return services.AttachmentTarget{
		SpisID:   r.PathValue("id"),
		Category: fmmodels.Category(r.PathValue("category")),
		User: fm.Actor{
			ID:          httputil.GetUserID(r),
			DisplayName: httputil.GetDisplayName(r),
		},
	}
}
