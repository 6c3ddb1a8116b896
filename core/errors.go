package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	RelayErrorBadInput     = "RELAY_BAD_INPUT"
	RelayErrorNotOwner     = "RELAY_NOT_OWNER"
	RelayErrorInvalidOwner = "RELAY_INVALID_OWNER"
	RelayErrorPaused       = "RELAY_PAUSED"
	RelayErrorInternal     = "RELAY_INTERNAL_ERROR"
)

func relayErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureRelayErrorEnvelope(richErr)
	}

	// Wrap (not New) so callers can still unwrap the domain sentinels.
	switch {
	case errors.Is(err, ErrNotOwner):
		return ensureRelayErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryAuthz, "caller is not the relay owner").
				WithTextCode(RelayErrorNotOwner),
		)
	case errors.Is(err, ErrInvalidOwner):
		return ensureRelayErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryBadInput, "new owner is the zero identity").
				WithTextCode(RelayErrorInvalidOwner),
		)
	case errors.Is(err, ErrRelayPaused):
		return ensureRelayErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryConflict, "relay is paused").
				WithTextCode(RelayErrorPaused),
		)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "required") || strings.Contains(msg, "invalid") {
		return ensureRelayErrorEnvelope(
			goerrors.Wrap(err, goerrors.CategoryBadInput, err.Error()).
				WithTextCode(RelayErrorBadInput),
		)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureRelayErrorEnvelope(mapped)
}

func ensureRelayErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = relayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultRelayTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultRelayTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return RelayErrorBadInput
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return RelayErrorNotOwner
	case goerrors.CategoryConflict:
		return RelayErrorPaused
	default:
		return RelayErrorInternal
	}
}

func relayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
