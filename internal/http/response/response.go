package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toshikazuyokoi/process-interview-backend/internal/domain/interview"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// statusFor maps a classified domain error code to an HTTP status.
func statusFor(code interview.ErrorCode) int {
	switch code {
	case interview.CodeValidation:
		return http.StatusBadRequest
	case interview.CodeUnauthorized:
		return http.StatusForbidden
	case interview.CodeNotFound:
		return http.StatusNotFound
	case interview.CodeStateConflict:
		return http.StatusConflict
	case interview.CodeGraphIntegrity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError renders err using its domain classification. The body
// carries the domain message, not the wrapped operation chain.
func RespondDomainError(c *gin.Context, err error) {
	code := interview.CodeOf(err)
	msg := interview.MessageOf(err)
	if msg == "" {
		msg = "internal error"
	}
	c.JSON(statusFor(code), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    string(code),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
