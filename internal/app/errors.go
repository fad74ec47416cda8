package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-room-scheduling/api"
	"github.com/metinatakli/cinema-room-scheduling/internal/domain"
	appvalidator "github.com/metinatakli/cinema-room-scheduling/internal/validator"
)

const (
	ErrInternalServer    = "The server encountered a problem and could not process your request"
	ErrNotFound          = "The requested resource not found"
	ErrMethodNotAllowed  = "The requested method is not supported for this resource"
	ErrEditConflict      = "Unable to update the record due to an edit conflict, please try again"
	ErrFailedValidation  = "One or more fields have invalid values"
	ErrSchedulingFailure = "The request violates one or more room scheduling rules"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusConflict, ErrEditConflict)
}

func (app *Application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, 0, len(validationErrs)),
	}

	for _, fe := range validationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fe.Field(),
			Issue: appvalidator.ValidationMessage(fe),
		})
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// failureResponse reports domain failures. The status follows the most severe
// code: missing resources first, then state conflicts, otherwise 422.
func (app *Application) failureResponse(w http.ResponseWriter, r *http.Request, err error) {
	codes := domain.FailureCodes(err)

	status := http.StatusUnprocessableEntity
	for _, code := range codes {
		switch code {
		case domain.CodeResourceNotFound,
			domain.CodeBookingNotFoundInRoom,
			domain.CodeBookingNotFoundForScreening,
			domain.CodeBookingNotFoundInFutureSched:
			status = http.StatusNotFound
		case domain.CodeResourceAlreadyExists,
			domain.CodeRoomNotAvailableForPeriod,
			domain.CodeRoomHasFutureBookings,
			domain.CodeRoomIsClosed,
			domain.CodeBookingAlreadyStarted:
			if status != http.StatusNotFound {
				status = http.StatusConflict
			}
		}
	}

	resp := api.DomainErrorResponse{
		Message:   ErrSchedulingFailure,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
		Errors:    toApiDomainErrors(err),
	}

	app.contextGetLogger(r).Info("request rejected by room rules", "codes", codes)

	err = app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// roomErrorResponse maps every error a room operation can produce to a response.
func (app *Application) roomErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsFailure(err):
		app.failureResponse(w, r, err)
	case errors.Is(err, ErrRoomLocked):
		app.editConflictResponseWithErr(w, r, err)
	case errors.Is(err, domain.ErrEditConflict):
		app.editConflictResponse(w, r)
	case errors.Is(err, domain.ErrBookingOverlap):
		app.failureResponse(w, r, domain.NewFailure(domain.CodeRoomNotAvailableForPeriod, nil))
	case errors.Is(err, domain.ErrDuplicateRecord):
		app.failureResponse(w, r, domain.NewFailure(domain.CodeResourceAlreadyExists, nil))
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func toApiDomainErrors(err error) []api.DomainError {
	var failures domain.Failures
	if errors.As(err, &failures) {
		out := make([]api.DomainError, len(failures))
		for i, f := range failures {
			out[i] = api.DomainError{Code: string(f.Code), Details: f.Details}
		}
		return out
	}

	var f *domain.Failure
	if errors.As(err, &f) {
		return []api.DomainError{{Code: string(f.Code), Details: f.Details}}
	}

	return []api.DomainError{}
}
