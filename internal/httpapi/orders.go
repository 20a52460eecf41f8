package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
)

// CreateOrder places an order for the acting client.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	o, err := h.orders.Create(c.Request.Context(), order.CreateInput{
		PostID:            req.Post,
		Description:       req.Description,
		Quantity:          req.Quantity,
		DesiredPickupDate: req.DesiredPickupDate,
		PaymentMethod:     post.PaymentMethod(req.PaymentMethod),
		DeliveryMethod:    order.DeliveryMethod(req.DeliveryMethod),
		DeliveryAddress:   req.DeliveryAddress.toDomain(),
	}, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(o))
}

// ListOrders returns a page of orders visible to the actor.
func (h *Handler) ListOrders(c *gin.Context) {
	filter := order.Filter{
		ClientID:       c.Query("client"),
		ArtisanID:      c.Query("artisan"),
		PostID:         c.Query("post"),
		Status:         order.Status(c.Query("status")),
		PaymentStatus:  order.PaymentStatus(c.Query("paymentStatus")),
		PaymentMethod:  post.PaymentMethod(c.Query("paymentMethod")),
		DeliveryMethod: order.DeliveryMethod(c.Query("deliveryMethod")),
	}

	page, err := h.orders.Query(c.Request.Context(), filter, pageOptions(c), actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]orderResponse, len(page.Results))
	for i := range page.Results {
		results[i] = toOrderResponse(&page.Results[i])
	}
	c.JSON(http.StatusOK, orderPageResponse{
		Results:      results,
		Page:         page.Page,
		Limit:        page.Limit,
		TotalPages:   page.TotalPages,
		TotalResults: page.TotalResults,
	})
}

// GetOrder returns one order.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("orderId"), actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// UpdateOrder patches one order, including status transitions.
func (h *Handler) UpdateOrder(c *gin.Context) {
	var req updateOrderRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	in := order.UpdateInput{
		Description:       req.Description,
		DesiredPickupDate: req.DesiredPickupDate,
		TotalPrice:        req.TotalPrice,
	}
	if req.Status != nil {
		st := order.Status(*req.Status)
		in.Status = &st
	}
	if req.PaymentStatus != nil {
		ps := order.PaymentStatus(*req.PaymentStatus)
		in.PaymentStatus = &ps
	}

	o, err := h.orders.Update(c.Request.Context(), c.Param("orderId"), in, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// DeleteOrder removes one order.
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), c.Param("orderId"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
