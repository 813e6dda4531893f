package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/logger"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// bindingError converts a gin binding failure into a validation error naming
// the first offending parameter.
func bindingError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperrors.MissingParameter(verrs[0].Field())
	}
	return apperrors.Wrap(apperrors.ErrValidation, err)
}

// parseID parses a ledger row id, reporting failures under the parameter name.
func parseID(value, param string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, apperrors.MissingParameter(param)
	}
	return id, nil
}

// maxPriceIDs bounds the ids of one price batch, each of which costs a ledger read.
const maxPriceIDs = 100

// parseIDList parses a comma separated list of at most maxPriceIDs ids. Every
// entry must be an integer; duplicates are kept.
func parseIDList(value, param string) ([]uint64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, apperrors.MissingParameter(param)
	}
	parts := strings.Split(value, ",")
	if len(parts) > maxPriceIDs {
		return nil, apperrors.WithMessage(apperrors.ErrValidation,
			fmt.Sprintf("Too many ids in %s (at most %d)", param, maxPriceIDs))
	}
	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := parseID(part, param)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, ErrorResponse{
			Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    apperrors.ErrInternalServer.Code,
			Message: apperrors.ErrInternalServer.Message,
		},
	})
}
