package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	businessModel "smallbiz-backend/internal/domains/business/model"
	"smallbiz-backend/internal/domains/customer/service"
	"smallbiz-backend/internal/shared/middleware"
	"smallbiz-backend/internal/shared/response"
)

type CustomerHandler struct {
	service service.ServiceInterface
}

func NewCustomerHandler(service service.ServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// List handles GET /api/v1/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	customers, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		if errors.Is(err, businessModel.ErrNoBusinessFound) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalServerError(c, "something went wrong")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, customers, &response.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  len(customers),
	})
}
