package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/aau-dhms/dhms-api/pkg/errors"
)

// Envelope is the stable response contract shared by every endpoint.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Code    string            `json:"code,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON sends a success response with the given status.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message sends a success response carrying a human-readable message.
func Message(c *gin.Context, status int, message string, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, message string, data interface{}) {
	Message(c, http.StatusCreated, message, data)
}

// Error converts the error to the failure envelope with the mapped HTTP status.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	envelope := Envelope{Success: false, Error: appErr.Message, Code: appErr.Code}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		envelope.Errors = fieldDetails(fieldErrs)
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, envelope)
}

// ErrorWithData sends a failure envelope that still carries a payload, used by
// the public laundry endpoints so the pickup page can show form details.
func ErrorWithData(c *gin.Context, err error, data interface{}) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Success: false, Error: appErr.Message, Code: appErr.Code, Data: data})
}

func fieldDetails(errs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, fe := range errs {
		details[strings.ToLower(fe.Field())] = "failed validation on '" + fe.Tag() + "'"
	}
	return details
}
