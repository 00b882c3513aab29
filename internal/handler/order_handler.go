package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"warung-service/internal/model"
	"warung-service/internal/order"
	"warung-service/pkg/logger"
)

// OrderHandler exposes checkout and the admin order views over REST.
// All mutations go through the lifecycle engine.
type OrderHandler struct {
	orders *order.Service
}

func NewOrderHandler(orders *order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /api/orders (admin): every order, newest first.
func (h *OrderHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	orders, err := h.orders.List(nil, 0)
	if err != nil {
		log.Error("Failed to list orders", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal mengambil data order",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    orders,
	})
}

// Create handles POST /api/orders (public checkout).
func (h *OrderHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		NamaPelanggan string            `json:"namaPelanggan"`
		NoHp          string            `json:"noHp"`
		Alamat        string            `json:"alamat"`
		Items         []model.OrderItem `json:"items"`
		Total         int               `json:"total"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Permintaan tidak valid",
		})
	}

	created, err := h.orders.Create(order.CreateInput{
		NamaPelanggan: req.NamaPelanggan,
		NoHp:          req.NoHp,
		Alamat:        req.Alamat,
		Items:         req.Items,
		Total:         req.Total,
	})
	if err != nil {
		var verr *order.ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": verr.Message,
			})
		}
		log.Error("Failed to create order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal order",
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    created,
	})
}

// UpdateStatus handles PATCH /api/orders/:id/status (admin).
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": "Order tidak ditemukan",
		})
	}

	var req struct {
		Status model.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Status diperlukan",
		})
	}

	updated, err := h.orders.SetStatus(uint(id), req.Status)
	if err != nil {
		var verr *order.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"message": verr.Message,
			})
		case errors.Is(err, order.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{
				"success": false,
				"message": "Order tidak ditemukan",
			})
		}
		log.Error("Failed to update order status",
			zap.Uint64("order_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Gagal update status",
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Status berhasil diubah",
		"data":    updated,
	})
}
