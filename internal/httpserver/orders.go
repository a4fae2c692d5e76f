package httpserver

import (
	"net/http"
	"strconv"

	"opticshop/internal/domain"
	ordersvc "opticshop/internal/service/order"

	"github.com/gin-gonic/gin"
)

// createOrder godoc
// @Summary  Check out the current user's cart
// @Tags     orders
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body ordersvc.CreateOrderInput true "shipping data"
// @Success  201 {object} orderResponse
// @Failure  400 {object} errorResponse
// @Failure  401 {object} errorResponse
// @Router   /orders [post]
func (h *handlers) createOrder(c *gin.Context) {
	id, _ := identityFrom(c)
	var in ordersvc.CreateOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	o, err := h.deps.Orders.AddOrder(c.Request.Context(), id.UserID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrder(*o, h.deps.Currency))
}

// placeGuestOrder godoc
// @Summary  Place an order without an account
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body ordersvc.GuestOrderInput true "guest data"
// @Success  201 {object} orderResponse
// @Failure  400 {object} errorResponse
// @Router   /orders/guest [post]
func (h *handlers) placeGuestOrder(c *gin.Context) {
	var in ordersvc.GuestOrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	o, err := h.deps.Orders.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrder(*o, h.deps.Currency))
}

// listOrders godoc
// @Summary  All orders, newest first
// @Tags     orders
// @Produce  json
// @Param    limit  query int false "page size"
// @Param    offset query int false "rows to skip"
// @Success  200 {array} orderResponse
// @Router   /orders [get]
func (h *handlers) listOrders(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		h.writeError(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		h.writeError(c, err)
		return
	}
	list, err := h.deps.Orders.FindAllOrders(c.Request.Context(), ordersvc.Page{Limit: limit, Offset: offset})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(list, h.deps.Currency))
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid("%s must be a non-negative integer", key)
	}
	return n, nil
}

// myOrders godoc
// @Summary  Orders of the current user
// @Tags     orders
// @Produce  json
// @Security BearerAuth
// @Success  200 {array} orderResponse
// @Failure  401 {object} errorResponse
// @Router   /orders/me [get]
func (h *handlers) myOrders(c *gin.Context) {
	id, _ := identityFrom(c)
	h.respondOrders(c, func() ([]domain.Order, error) {
		return h.deps.Orders.GetByUserID(c.Request.Context(), id.UserID)
	})
}

// ordersByUser godoc
// @Summary  Orders of a registered user
// @Tags     orders
// @Produce  json
// @Param    userId path string true "user id"
// @Success  200 {array} orderResponse
// @Router   /orders/user/{userId} [get]
func (h *handlers) ordersByUser(c *gin.Context) {
	h.respondOrders(c, func() ([]domain.Order, error) {
		return h.deps.Orders.GetByUserID(c.Request.Context(), c.Param("userId"))
	})
}

// ordersByEmail godoc
// @Summary  Orders of the registered user with this email
// @Tags     orders
// @Produce  json
// @Param    email path string true "account email"
// @Success  200 {array} orderResponse
// @Failure  404 {object} errorResponse
// @Router   /orders/email/{email} [get]
func (h *handlers) ordersByEmail(c *gin.Context) {
	h.respondOrders(c, func() ([]domain.Order, error) {
		return h.deps.Orders.FindAllByUserEmail(c.Request.Context(), c.Param("email"))
	})
}

func (h *handlers) respondOrders(c *gin.Context, load func() ([]domain.Order, error)) {
	list, err := load()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(list, h.deps.Currency))
}

// getOrder godoc
// @Summary  Get an order
// @Tags     orders
// @Produce  json
// @Param    id path string true "order id"
// @Success  200 {object} orderResponse
// @Failure  404 {object} errorResponse
// @Router   /orders/{id} [get]
func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.deps.Orders.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(*o, h.deps.Currency))
}

// getOrderItem godoc
// @Summary  Get one item of an order
// @Tags     orders
// @Produce  json
// @Param    id     path string true "order id"
// @Param    itemId path string true "order item id"
// @Success  200 {object} orderItemResponse
// @Failure  404 {object} errorResponse
// @Router   /orders/{id}/items/{itemId} [get]
func (h *handlers) getOrderItem(c *gin.Context) {
	it, err := h.deps.Orders.GetByOrderIDAndOrderItemID(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderItem(*it, h.deps.Currency))
}

// updateOrderStatus godoc
// @Summary  Change the order status and notify the owner
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id   path string        true "order id"
// @Param    body body statusRequest true "new status"
// @Success  200 {object} orderResponse
// @Failure  400 {object} errorResponse
// @Failure  404 {object} errorResponse
// @Router   /orders/{id}/status [patch]
func (h *handlers) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status required")
		return
	}
	st, err := domain.ParseStatus(req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	o, err := h.deps.Orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), st)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(*o, h.deps.Currency))
}

// updateOrder godoc
// @Summary  Overwrite the order status
// @Description Unlike the status endpoint the owner is not notified.
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    id   path string        true "order id"
// @Param    body body statusRequest true "new status"
// @Success  200 {object} orderResponse
// @Failure  400 {object} errorResponse
// @Failure  404 {object} errorResponse
// @Router   /orders/{id} [put]
func (h *handlers) updateOrder(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "status required")
		return
	}
	o, err := h.deps.Orders.Update(c.Request.Context(), c.Param("id"), ordersvc.UpdateOrderInput{Status: domain.Status(req.Status)})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(*o, h.deps.Currency))
}
