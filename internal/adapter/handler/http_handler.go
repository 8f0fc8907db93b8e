package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/campusmess/foodcourt/internal/core/domain"
	"github.com/campusmess/foodcourt/internal/core/service"
	"github.com/campusmess/foodcourt/internal/port"
)

type HTTPHandler struct {
	orderService *service.OrderService
	validate     *validatorv10.Validate
}

func NewHTTPHandler(orderService *service.OrderService) *HTTPHandler {
	return &HTTPHandler{
		orderService: orderService,
		validate:     validatorv10.New(),
	}
}

// RegisterRoutes wires the order API. Tracking and the queue snapshot are
// public; everything else needs an established identity, and the staff
// dashboard endpoints need a staff or admin role.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api", Identity())
	api.GET("/track/:ticketId", h.TrackByTicket)
	api.GET("/queue", h.QueueSnapshot)

	auth := api.Group("", RequireIdentity())
	auth.POST("/orders", h.CreateOrder)
	auth.GET("/orders/mine", h.ListMyOrders)
	auth.GET("/orders/lookup", h.GetOrder)
	auth.PATCH("/order/:id/status", h.UpdateStatus)
	auth.POST("/order/:id/cancel", h.CancelOrder)

	staff := auth.Group("", RequireRoles(domain.RoleStaff, domain.RoleAdmin))
	staff.GET("/orders", h.ListOrders)
	staff.GET("/orders/report", h.GetReport)
}

func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := bindAndValidate(c, &req, h.validate); err != nil {
		return
	}

	in := service.PlaceOrderInput{
		CartID: req.CartID,
		Customer: service.CustomerInput{
			MessID:     req.Customer.MessID,
			Name:       req.Customer.Name,
			RollNumber: req.Customer.RollNumber,
			Contact:    req.Customer.Contact,
		},
		DeliveryDate:        parseDeliveryDate(req.DeliveryDate),
		SpecialInstructions: req.SpecialInstructions,
		PickupWindow:        req.PickupWindow,
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), identityFrom(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *HTTPHandler) ListOrders(c *gin.Context) {
	statuses, ok := parseStatusFilter(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListOrders(c.Request.Context(), statuses)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *HTTPHandler) ListMyOrders(c *gin.Context) {
	orders, err := h.orderService.ListCustomerOrders(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *HTTPHandler) GetReport(c *gin.Context) {
	report, err := h.orderService.GetReport(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *HTTPHandler) GetOrder(c *gin.Context) {
	ref := service.OrderRef{
		TicketID: c.Query("ticketId"),
		OrderID:  c.Query("orderId"),
	}
	if qn := c.Query("queueNumber"); qn != "" {
		n, err := strconv.ParseInt(qn, 10, 64)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  false,
				"message": "queueNumber must be an integer.",
			})
			return
		}
		ref.QueueNumber = n
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), ref)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) QueueSnapshot(c *gin.Context) {
	statuses, ok := parseStatusFilter(c)
	if !ok {
		return
	}
	queue, err := h.orderService.QueueSnapshot(c.Request.Context(), statuses)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}

func (h *HTTPHandler) TrackByTicket(c *gin.Context) {
	ticketID := strings.TrimSpace(c.Param("ticketId"))
	if ticketID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  false,
			"message": "ticketId is required.",
		})
		return
	}
	view, err := h.orderService.TrackByTicket(c.Request.Context(), ticketID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *HTTPHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := bindAndValidate(c, &req, h.validate); err != nil {
		return
	}
	next, ok := domain.ParseStatus(req.Status)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  false,
			"message": "Unknown status: " + req.Status,
		})
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), identityFrom(c), c.Param("id"), next, req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *HTTPHandler) CancelOrder(c *gin.Context) {
	order, err := h.orderService.CancelOrder(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Order cancelled successfully.",
		"order":   order,
	})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseStatusFilter reads the comma-separated status query parameter. An
// unknown status writes a 422 and returns ok=false.
func parseStatusFilter(c *gin.Context) ([]domain.OrderStatus, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	var statuses []domain.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		status, ok := domain.ParseStatus(strings.TrimSpace(part))
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  false,
				"message": "Unknown status: " + part,
			})
			return nil, false
		}
		statuses = append(statuses, status)
	}
	return statuses, true
}

// parseDeliveryDate keeps only a well-formed RFC3339 timestamp; anything else
// falls back to the default delivery window downstream.
func parseDeliveryDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	var (
		invalidTransition *domain.InvalidTransitionError
		incompleteProfile *service.IncompleteProfileError
	)

	switch {
	case errors.Is(err, service.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  false,
			"message": "No cart items found. Please add items to cart to place order.",
		})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  false,
			"message": "Cart is empty. Please add items before placing an order.",
		})
	case errors.As(err, &incompleteProfile):
		fields := make([]string, 0, len(incompleteProfile.Missing))
		for _, f := range incompleteProfile.Missing {
			fields = append(fields, f+" is required.")
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  false,
			"message": "Customer profile is incomplete.",
			"errors":  fields,
		})
	case errors.Is(err, service.ErrNoOrderableItems):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  false,
			"message": "Unable to build order items from cart. Please refresh cart and try again.",
		})
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  false,
			"message": "Order not found.",
		})
	case errors.As(err, &invalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"status":  false,
			"message": "Transition from " + string(invalidTransition.From) + " to " + string(invalidTransition.To) + " is not allowed.",
		})
	case errors.Is(err, port.ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{
			"status":  false,
			"message": "Order was updated concurrently. Please retry.",
		})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{
			"status":  false,
			"message": "You are not allowed to perform this action.",
		})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  false,
			"message": "Service temporarily unavailable. Please try again.",
		})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  false,
			"message": "Something went wrong. Please try again.",
		})
	}
}
