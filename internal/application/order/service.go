package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/catalog/internal/application/tx"
	"github.com/xiebiao/catalog/internal/domain/order"
	"github.com/xiebiao/catalog/pkg/authz"
	"github.com/xiebiao/catalog/pkg/logger"
	"github.com/xiebiao/catalog/pkg/metrics"
	"github.com/xiebiao/catalog/pkg/mq"
)

// Service reads orders and moves them through the status machine.
// Only the client who placed an order, or an admin, may touch it.
type Service struct {
	orderRepo order.Repository
	publisher mq.Publisher
	authz     *authz.Authorizer
	txManager tx.Manager
}

func NewService(orderRepo order.Repository, publisher mq.Publisher, authorizer *authz.Authorizer, txManager tx.Manager) *Service {
	return &Service{
		orderRepo: orderRepo,
		publisher: publisher,
		authz:     authorizer,
		txManager: txManager,
	}
}

func (s *Service) FindByID(ctx context.Context, p *authz.Principal, id uint) (*OrderDTO, error) {
	if err := s.authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireSelfOrAdmin(p, o.ClientID); err != nil {
		return nil, err
	}
	return toOrderDTO(o), nil
}

// Pay moves a waiting order to PAID.
func (s *Service) Pay(ctx context.Context, p *authz.Principal, id uint) (*OrderDTO, error) {
	return s.transition(ctx, p, id, "pay", EventOrderPaid, (*order.Order).Pay)
}

// Cancel moves a waiting or paid order to CANCELED.
func (s *Service) Cancel(ctx context.Context, p *authz.Principal, id uint) (*OrderDTO, error) {
	return s.transition(ctx, p, id, "cancel", EventOrderCanceled, (*order.Order).Cancel)
}

func (s *Service) transition(
	ctx context.Context,
	p *authz.Principal,
	id uint,
	op, routingKey string,
	apply func(*order.Order) error,
) (dto *OrderDTO, err error) {
	if err := s.authz.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	defer func() { metrics.RecordMutation("order", op, err) }()

	var o *order.Order
	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = s.orderRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, order.ErrOrderNotFound) {
				return order.OrderIDNotFound(id)
			}
			return err
		}
		if err := s.authz.RequireSelfOrAdmin(p, o.ClientID); err != nil {
			return err
		}
		if err := apply(o); err != nil {
			return err
		}
		return s.orderRepo.UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("order status changed",
		zap.Uint("order_id", o.ID),
		zap.String("status", string(o.Status)))
	publish(ctx, s.publisher, routingKey, o)
	return toOrderDTO(o), nil
}
