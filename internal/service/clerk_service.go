package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inventra/internal/dto"
	"inventra/internal/model"
	"inventra/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReorderEmail is the payload queued for each manager when a clerk asks for a
// reorder. Field tags match the email worker's job payload.
type ReorderEmail struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ClerkService covers the clerk's floor workflow: watching low stock, handling
// pending orders and asking managers to reorder.
type ClerkService interface {
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	PendingOrders(ctx context.Context) ([]dto.TransactionResponse, error)
	CreateOrder(ctx context.Context, actor uuid.UUID, req dto.CreateOrderRequest) (*dto.TransactionResponse, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.TransactionResponse, error)
	RequestReorder(ctx context.Context, actor uuid.UUID, req dto.ReorderRequest) (*dto.ReorderResponse, error)
}

type clerkService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
	users        repository.UserRepository
	notifier     NotificationService
	mail         EmailQueue
	now          func() time.Time
}

// NewClerkService wires the clerk workflow. mail may be nil, in which case
// reorder requests only produce in-app notifications.
func NewClerkService(
	products repository.ProductRepository,
	transactions repository.TransactionRepository,
	users repository.UserRepository,
	notifier NotificationService,
	mail EmailQueue,
) ClerkService {
	return &clerkService{
		products:     products,
		transactions: transactions,
		users:        users,
		notifier:     notifier,
		mail:         mail,
		now:          time.Now,
	}
}

func (s *clerkService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return toProductResponses(products), nil
}

func (s *clerkService) PendingOrders(ctx context.Context) ([]dto.TransactionResponse, error) {
	rows, err := s.transactions.ListByStatus(ctx, model.TransactionPending)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return toTransactionResponses(rows), nil
}

// CreateOrder records a pending transaction with the stock it would produce.
// The product itself is not touched.
func (s *clerkService) CreateOrder(ctx context.Context, actor uuid.UUID, req dto.CreateOrderRequest) (*dto.TransactionResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, invalid("invalid productId %q", req.ProductID)
	}
	if !model.ValidTransactionType(req.Type) {
		return nil, invalid("invalid order type %q, expected in or out", req.Type)
	}
	if req.Quantity <= 0 {
		return nil, invalid("quantity must be a positive integer")
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupErr("product", err)
	}
	if req.Type == model.TransactionOut && p.Stock < req.Quantity {
		return nil, &InsufficientStockError{Available: p.Stock, Requested: req.Quantity}
	}

	reference := strings.TrimSpace(req.Reference)
	if reference == "" {
		reference = fmt.Sprintf("ORDER-%d", s.now().UnixMilli())
	}
	tx := &model.Transaction{
		ProductID:     p.ID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		Reference:     reference,
		PerformedBy:   actor,
		PreviousStock: p.Stock,
		NewStock:      model.ApplyMovement(p.Stock, req.Type, req.Quantity),
		Status:        model.TransactionPending,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	tx.Product = p
	resp := toTransactionResponse(tx)
	return &resp, nil
}

// UpdateOrder resolves a pending order. Only the status column changes.
func (s *clerkService) UpdateOrder(ctx context.Context, id uuid.UUID, req dto.UpdateOrderRequest) (*dto.TransactionResponse, error) {
	if req.Status != model.TransactionCompleted && req.Status != model.TransactionRejected {
		return nil, invalid("invalid order status %q, expected completed or rejected", req.Status)
	}
	tx, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr("order", err)
	}
	if tx.Status != model.TransactionPending {
		return nil, conflict("order is already %s", tx.Status)
	}
	ok, err := s.transactions.UpdateStatus(ctx, id, model.TransactionPending, req.Status)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	if !ok {
		return nil, conflict("order was resolved concurrently")
	}
	tx.Status = req.Status
	resp := toTransactionResponse(tx)
	return &resp, nil
}

// RequestReorder notifies every active manager. Without an explicit quantity
// the request asks for enough units to reach twice the threshold.
func (s *clerkService) RequestReorder(ctx context.Context, actor uuid.UUID, req dto.ReorderRequest) (*dto.ReorderResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, invalid("invalid productId %q", req.ProductID)
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupErr("product", err)
	}

	quantity := p.LowStockThreshold*2 - p.Stock
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, invalid("quantity must be a positive integer")
		}
		quantity = *req.Quantity
	}
	if quantity < 1 {
		quantity = 1
	}

	message := fmt.Sprintf("Reorder requested for %s (%s): %d units, current stock %d", p.Name, p.SKU, quantity, p.Stock)
	metadata := map[string]interface{}{
		"sku":               p.SKU,
		"currentStock":      p.Stock,
		"requestedQuantity": quantity,
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		metadata["note"] = strings.TrimSpace(*req.Note)
		message += ". Note: " + metadata["note"].(string)
	}

	sender := actor
	notified, err := s.notifier.NotifyRole(ctx, model.RoleManager, NotificationInput{
		Message:   message,
		Type:      model.NotificationReorder,
		SenderID:  &sender,
		ProductID: &p.ID,
		Metadata:  metadata,
	})
	if err != nil {
		return nil, err
	}
	s.queueReorderEmails(ctx, p, message)

	return &dto.ReorderResponse{
		Product:           *toProductSummary(p),
		RequestedQuantity: quantity,
		NotifiedManagers:  notified,
	}, nil
}

func (s *clerkService) queueReorderEmails(ctx context.Context, p *model.Product, message string) {
	if s.mail == nil {
		return
	}
	managers, err := s.users.ListByRole(ctx, model.RoleManager)
	if err != nil {
		log.Error().Err(err).Msg("clerk: list managers for reorder email")
		return
	}
	for _, m := range managers {
		job := ReorderEmail{
			ToEmail: m.Email,
			Subject: fmt.Sprintf("Reorder request: %s (%s)", p.Name, p.SKU),
			Body:    message,
		}
		if err := s.mail.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Str("to", m.Email).Msg("clerk: could not queue reorder email")
		}
	}
}
