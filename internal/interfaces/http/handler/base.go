package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/interfaces/http/dto"
	"github.com/fieldledger/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides shared response helpers for all handlers
type BaseHandler struct{}

// Success writes a 200 response with data
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessPage writes a 200 response with a paginated item list
func SuccessPage[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(page.Items, page.Total, page.Page, page.PageSize))
}

// Created writes a 201 response with data
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 validation error
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeValidation, message, c.GetString(middleware.ContextKeyRequestID)))
}

// BindingError writes a 400 for a failed request binding. Validator failures
// are broken out per field; anything else (malformed JSON, bad types) gets a
// generic message.
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed on '" + fe.Tag() + "' validation"
		}
		c.JSON(http.StatusBadRequest,
			dto.NewErrorResponseWithDetails(dto.ErrCodeValidation, "Request validation failed", fields))
		return
	}
	h.BadRequest(c, "Malformed request payload")
}

// HandleError maps an application error to the API envelope. Domain errors
// keep their code; everything else becomes an opaque internal error.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	requestID := c.GetString(middleware.ContextKeyRequestID)

	var ve *shared.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(dto.ErrCodeValidation, ve.Error(), ve.Fields))
		return
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		c.JSON(dto.GetHTTPStatus(de.Code), dto.NewErrorResponseWithRequestID(de.Code, de.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An internal error occurred", requestID))
}

// tenantFromContext reads the authenticated tenant, aborting with 401 when the
// middleware did not set one
func (h *BaseHandler) tenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	tenantID, ok := middleware.TenantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Missing tenant context",
				c.GetString(middleware.ContextKeyRequestID)))
		return uuid.Nil, false
	}
	return tenantID, true
}

// pathID parses a UUID path parameter, writing a 400 on failure
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
