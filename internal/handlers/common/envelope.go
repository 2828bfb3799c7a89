package common

import (
	"github.com/gin-gonic/gin"

	"gemini-proxy-go/internal/apperrors"
)

// ErrorEntry is one element of the failure envelope's errors array.
type ErrorEntry struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
}

// Envelope is the uniform JSON response shape:
// {"result":"OK","data":{...}} on success,
// {"result":"Failed","errors":[{"code","message"}]} on failure.
type Envelope struct {
	Result string         `json:"result"`
	Data   map[string]any `json:"data,omitempty"`
	Errors []ErrorEntry   `json:"errors,omitempty"`
}

// RespondOK renders the success envelope.
func RespondOK(c *gin.Context, status int, data map[string]any) {
	c.JSON(status, Envelope{Result: "OK", Data: data})
}

// AbortWithProxyError renders the failure envelope with the status implied by
// the error's code and aborts the request.
func AbortWithProxyError(c *gin.Context, perr *apperrors.ProxyError) {
	if perr == nil {
		perr = apperrors.New(apperrors.CodeInternal, "Internal error")
	}
	c.AbortWithStatusJSON(perr.HTTPStatus(), Envelope{
		Result: "Failed",
		Errors: []ErrorEntry{{
			Code:        string(perr.Code),
			Message:     perr.Message,
			Remediation: perr.Remediation,
		}},
	})
}

// AbortWithCode is a shorthand for code+message failures raised at the boundary.
func AbortWithCode(c *gin.Context, code apperrors.Code, message string) {
	AbortWithProxyError(c, apperrors.New(code, message))
}
