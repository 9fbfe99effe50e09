package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hotelreserve/hrs-backend/internal/application"
	"github.com/hotelreserve/hrs-backend/pkg/response"
	"github.com/hotelreserve/hrs-backend/pkg/validation"
)

type CustomerHandler struct {
	Svc    *application.CustomerService
	Logger *logrus.Logger
}

func NewCustomerHandler(svc *application.CustomerService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{Svc: svc, Logger: logger}
}

type createCustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	SendEmail *bool  `json:"sendEmail"` // defaults to true
}

// Create POST /api/customers (admin only)
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}

	sendEmail := req.SendEmail == nil || *req.SendEmail
	u, err := h.Svc.CreateCustomer(c.Request.Context(), application.CreateCustomerInput{
		Name:      req.Name,
		Email:     req.Email,
		SendEmail: sendEmail,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "customer already exists", nil)
			return
		}
		h.Logger.WithError(err).WithField("email", req.Email).Error("create customer failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"customer": userJSON(u)}, "customer created successfully")
}

// List GET /api/customers (admin only)
func (h *CustomerHandler) List(c *gin.Context) {
	users, err := h.Svc.ListCustomers(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("list customers failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userJSON(u))
	}
	response.Success(c, http.StatusOK, gin.H{"customers": out}, "customers")
}

// Search GET /api/customers/search?q=&size= (admin only)
func (h *CustomerHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "validation failed", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.SearchCustomers(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).WithField("query", q).Error("customer search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": hits}, "search results")
}
