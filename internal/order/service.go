// Package order owns the order lifecycle: creation, the flat status
// setter and the customer/admin notifications paired with each change.
// All status mutations in the system go through Service.
package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"warung-service/internal/model"
	"warung-service/internal/notify"
	"warung-service/prometheus"
)

// ErrNotFound is returned when the referenced order does not exist.
var ErrNotFound = errors.New("order not found")

// ValidationError marks a rejected input; handlers surface it as 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service is the order lifecycle engine. It holds no cached state:
// every operation reads the authoritative row before writing.
type Service struct {
	db          *gorm.DB
	notifier    notify.Notifier
	adminNumber string
	log         *zap.Logger
}

// NewService wires the engine with its collaborators. adminNumber is
// the chat identifier that receives new-order alerts.
func NewService(db *gorm.DB, notifier notify.Notifier, adminNumber string, log *zap.Logger) *Service {
	return &Service{
		db:          db,
		notifier:    notifier,
		adminNumber: adminNumber,
		log:         log,
	}
}

// CreateInput is a checkout submission.
type CreateInput struct {
	NamaPelanggan string
	NoHp          string
	Alamat        string
	Items         []model.OrderItem
	Total         int
}

// Create persists a new PENDING order and alerts both the admin and the
// customer. The submitted total is trusted as given but the items total
// is computed and stored alongside for audit; a mismatch is logged, not
// rejected, because the shipped storefront computes totals client-side.
func (s *Service) Create(in CreateInput) (*model.Order, error) {
	if in.NamaPelanggan == "" || in.NoHp == "" || in.Alamat == "" {
		prometheus.RecordOrderValidationError()
		return nil, &ValidationError{Message: "Data pelanggan tidak lengkap"}
	}

	itemsJSON, err := json.Marshal(in.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	computed := 0
	for _, it := range in.Items {
		computed += it.Harga * it.Qty
	}

	order := &model.Order{
		NamaPelanggan: in.NamaPelanggan,
		NoHp:          in.NoHp,
		Alamat:        in.Alamat,
		Items:         string(itemsJSON),
		Total:         in.Total,
		ComputedTotal: computed,
		Status:        model.OrderPending,
	}

	insertStart := time.Now()
	if err := s.db.Create(order).Error; err != nil {
		return nil, err
	}
	prometheus.TrackDBOperation("insert")(insertStart)
	prometheus.RecordOrderCreated()

	if computed != in.Total {
		prometheus.RecordTotalMismatch()
		s.log.Warn("Submitted order total differs from computed items total",
			zap.Uint("order_id", order.ID),
			zap.Int("submitted", in.Total),
			zap.Int("computed", computed))
	}

	s.log.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("customer", order.NamaPelanggan),
		zap.Int("total", order.Total))

	// Both notifications are best-effort; checkout already succeeded.
	s.notifier.Send(s.adminNumber, newOrderAdminMessage(order, in.Items))
	s.notifier.Send(order.NoHp, newOrderCustomerMessage(order))

	return order, nil
}

// SetStatus sets the order status. Transitions are unguarded: any
// status may follow any other, and re-setting the current value is
// legal and re-sends the notification. For PROCESSED, COMPLETED and
// CANCELLED the customer is notified; PENDING sends nothing.
func (s *Service) SetStatus(id uint, status model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, &ValidationError{Message: fmt.Sprintf("Status tidak valid: %s", status)}
	}

	var order model.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updateStart := time.Now()
	if err := s.db.Model(&order).Update("status", status).Error; err != nil {
		return nil, err
	}
	prometheus.TrackDBOperation("update")(updateStart)
	order.Status = status
	prometheus.RecordOrderStatus(string(status))

	s.log.Info("Order status updated",
		zap.Uint("order_id", order.ID),
		zap.String("status", string(status)))

	if msg := StatusCustomerMessage(&order); msg != "" {
		s.notifier.Send(order.NoHp, msg)
	}

	return &order, nil
}

// Get returns one order by id.
func (s *Service) Get(id uint) (*model.Order, error) {
	var order model.Order
	if err := s.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first. A nil status means all statuses;
// limit <= 0 means no limit. The REST layer lists everything while the
// chatbot defaults to PENDING with a limit of 10.
func (s *Service) List(status *model.OrderStatus, limit int) ([]model.Order, error) {
	query := s.db.Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []model.Order
	defer prometheus.TrackDBOperation("query")(time.Now())
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
