package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	businessModel "smallbiz-backend/internal/domains/business/model"
	"smallbiz-backend/internal/domains/discount/model"
	"smallbiz-backend/internal/domains/discount/service"
	"smallbiz-backend/internal/shared/middleware"
	"smallbiz-backend/internal/shared/response"
)

type DiscountHandler struct {
	service service.ServiceInterface
}

func NewDiscountHandler(service service.ServiceInterface) *DiscountHandler {
	return &DiscountHandler{service: service}
}

// Create handles POST /api/v1/discount-rules.
func (h *DiscountHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	rule, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, rule)
}

// Update handles PUT /api/v1/discount-rules/:id.
func (h *DiscountHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rule id")
		return
	}

	var req model.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	rule, err := h.service.Update(c.Request.Context(), userID, ruleID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rule)
}

// Delete handles DELETE /api/v1/discount-rules/:id.
func (h *DiscountHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rule id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, ruleID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Get handles GET /api/v1/discount-rules/:id.
func (h *DiscountHandler) Get(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid rule id")
		return
	}

	rule, err := h.service.Get(c.Request.Context(), userID, ruleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rule)
}

// List handles GET /api/v1/discount-rules.
func (h *DiscountHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	rules, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, rules)
}

// Preview handles POST /api/v1/discount-rules/preview: evaluates the
// active rule set against a candidate bill without persisting anything.
func (h *DiscountHandler) Preview(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	result, err := h.service.Preview(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *DiscountHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrRuleNotFound):
		response.NotFound(c, "discount rule not found")
	case errors.Is(err, businessModel.ErrNoBusinessFound):
		response.BadRequest(c, err.Error())
	default:
		response.InternalServerError(c, "something went wrong")
	}
}
