package users

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vitalvas/routedoc/mux"
)

// Error codes.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeInternal        = "internal"
)

// badRequest wraps request decoding failures.
type badRequest struct {
	err error
}

func (e *badRequest) Error() string { return e.err.Error() }

func (e *badRequest) Unwrap() error { return e.err }

// writeError maps err to a status code and JSON body. Unknown errors are
// logged and reported as 500 without their message.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var valErrs validator.ValidationErrors
	var decodeErr *badRequest

	switch {
	case errors.As(err, &valErrs):
		details := make(map[string]string, len(valErrs))
		messages := make([]string, 0, len(valErrs))
		for _, fe := range valErrs {
			msg := validationMessage(fe)
			details[fe.Field()] = msg
			messages = append(messages, fe.Field()+": "+msg)
		}
		mux.ResponseJSON(w, http.StatusBadRequest, Error{
			Code:    CodeInvalidArgument,
			Message: strings.Join(messages, "; "),
			Details: details,
		})

	case errors.As(err, &decodeErr):
		mux.ResponseJSON(w, http.StatusBadRequest, Error{Code: CodeInvalidArgument, Message: decodeErr.Error()})

	case errors.Is(err, ErrNotFound):
		mux.ResponseJSON(w, http.StatusNotFound, Error{Code: CodeNotFound, Message: "user not found"})

	case errors.Is(err, ErrLoginTaken):
		mux.ResponseJSON(w, http.StatusConflict, Error{Code: CodeConflict, Message: "login already taken"})

	default:
		logger.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		mux.ResponseJSON(w, http.StatusInternalServerError, Error{Code: CodeInternal, Message: http.StatusText(http.StatusInternalServerError)})
	}
}

// validationMessage turns a field error into a short message. Field names
// come from the json tags.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
