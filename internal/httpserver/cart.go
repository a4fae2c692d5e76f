package httpserver

import (
	"net/http"

	cartsvc "opticshop/internal/service/cart"

	"github.com/gin-gonic/gin"
)

// getCart godoc
// @Summary  Current user's cart
// @Tags     cart
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} cartResponse
// @Failure  401 {object} errorResponse
// @Router   /cart [get]
func (h *handlers) getCart(c *gin.Context) {
	id, _ := identityFrom(c)
	cart, err := h.deps.Carts.Get(c.Request.Context(), id.UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(*cart, h.deps.Currency))
}

// addCartItem godoc
// @Summary  Put glasses into the cart
// @Description Adding glasses already in the cart increases their quantity.
// @Tags     cart
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body cartsvc.AddItemInput true "glasses and quantity"
// @Success  200 {object} cartResponse
// @Failure  400 {object} errorResponse
// @Failure  401 {object} errorResponse
// @Failure  404 {object} errorResponse
// @Router   /cart/items [post]
func (h *handlers) addCartItem(c *gin.Context) {
	id, _ := identityFrom(c)
	var in cartsvc.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	cart, err := h.deps.Carts.AddItem(c.Request.Context(), id.UserID, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(*cart, h.deps.Currency))
}

// changeCartItem godoc
// @Summary  Set the quantity of a cart item
// @Description Zero or less removes the item.
// @Tags     cart
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string                true "cart item id"
// @Param    body body changeQuantityRequest true "new quantity"
// @Success  200 {object} cartResponse
// @Failure  401 {object} errorResponse
// @Failure  404 {object} errorResponse
// @Router   /cart/items/{id} [put]
func (h *handlers) changeCartItem(c *gin.Context) {
	id, _ := identityFrom(c)
	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid payload")
		return
	}
	cart, err := h.deps.Carts.ChangeQuantity(c.Request.Context(), id.UserID, c.Param("id"), req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(*cart, h.deps.Currency))
}

// removeCartItem godoc
// @Summary  Remove an item from the cart
// @Tags     cart
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "cart item id"
// @Success  200 {object} cartResponse
// @Failure  401 {object} errorResponse
// @Failure  404 {object} errorResponse
// @Router   /cart/items/{id} [delete]
func (h *handlers) removeCartItem(c *gin.Context) {
	id, _ := identityFrom(c)
	cart, err := h.deps.Carts.RemoveItem(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(*cart, h.deps.Currency))
}
