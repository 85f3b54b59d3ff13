package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"metria/internal/models"

	"github.com/google/uuid"
)

// OrderItemInput is the client's view of one ordered dish. Price and name are
// resolved server side from the menu so clients cannot set their own totals.
type OrderItemInput struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes"`
}

// CreateOrder snapshots menu prices into a new kitchen ticket. Orders against
// a closed session are rejected, and the first order of a session moves it
// from OPEN to ORDERING.
func (s *Service) CreateOrder(ctx context.Context, sessionID string, items []OrderItemInput, isExtra bool) (*models.Order, error) {
	if len(items) == 0 {
		return nil, errors.New("order has no items")
	}
	session, err := s.GetSessionByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionClosed {
		return nil, ErrSessionClosed
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		TableNumber:   session.TableNumber,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		IsExtra:       isExtra,
		CreatedAt:     time.Now().UTC(),
	}
	for _, in := range items {
		if in.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity for item %s", in.MenuItemID)
		}
		menuItem, err := s.GetMenuItem(ctx, in.MenuItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("menu item %s not found", in.MenuItemID)
			}
			return nil, err
		}
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   in.Quantity,
			Notes:      strings.TrimSpace(in.Notes),
			Image:      menuItem.Image,
		})
		order.Total += menuItem.Price * float64(in.Quantity)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, session_id, table_number, total, status, payment_status, payment_id, is_extra, created_at)
		VALUES (?, ?, ?, ?, ?, ?, '', ?, ?)`,
		order.ID, order.SessionID, order.TableNumber, order.Total, order.Status,
		order.PaymentStatus, order.IsExtra, order.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, name, price, quantity, notes, image)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			order.ID, item.MenuItemID, item.Name, item.Price, item.Quantity, item.Notes, item.Image,
		); err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
	}
	if session.Status == models.SessionOpen {
		if _, err = tx.ExecContext(ctx,
			`UPDATE table_sessions SET status = ? WHERE id = ?`, models.SessionOrdering, session.ID,
		); err != nil {
			return nil, fmt.Errorf("advance session to ordering: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create order: %w", err)
	}
	return order, nil
}

// GetOrder returns one order with its items, or sql.ErrNoRows.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.QueryRowContext(ctx,
		`SELECT id, session_id, table_number, total, status, payment_status, payment_id, is_extra, created_at
		FROM orders WHERE id = ?`, orderID,
	).Scan(&order.ID, &order.SessionID, &order.TableNumber, &order.Total, &order.Status,
		&order.PaymentStatus, &order.PaymentID, &order.IsExtra, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := s.loadOrderItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListSessionOrders returns a session's orders oldest first.
func (s *Service) ListSessionOrders(ctx context.Context, sessionID string) ([]models.Order, error) {
	return s.listOrders(ctx,
		`SELECT id, session_id, table_number, total, status, payment_status, payment_id, is_extra, created_at
		FROM orders WHERE session_id = ? ORDER BY created_at ASC`, sessionID)
}

// ListKitchenOrders returns orders still in flight, oldest first so the
// kitchen works the queue in arrival order.
func (s *Service) ListKitchenOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx,
		`SELECT id, session_id, table_number, total, status, payment_status, payment_id, is_extra, created_at
		FROM orders WHERE status IN (?, ?, ?, ?) ORDER BY created_at ASC`,
		models.OrderPending, models.OrderConfirmed, models.OrderPreparing, models.OrderReady)
}

// ListRecentOrders returns the latest orders for the admin dashboard.
func (s *Service) ListRecentOrders(ctx context.Context) ([]models.Order, error) {
	return s.listOrders(ctx,
		`SELECT id, session_id, table_number, total, status, payment_status, payment_id, is_extra, created_at
		FROM orders ORDER BY created_at DESC LIMIT 100`)
}

// UpdateOrderStatus moves a kitchen ticket along its workflow.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	switch status {
	case models.OrderPending, models.OrderConfirmed, models.OrderPreparing,
		models.OrderReady, models.OrderDelivered, models.OrderCancelled:
	default:
		return fmt.Errorf("unknown order status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, status, orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("order rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SimulatePixPayment settles every order of the session and advances it to
// PAID. The PIX charge is simulated: a synthetic payment id is stamped on the
// orders instead of calling a payment provider.
func (s *Service) SimulatePixPayment(ctx context.Context, sessionID string) (string, error) {
	session, err := s.GetSessionByID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if session.Status == models.SessionClosed {
		return "", ErrSessionClosed
	}

	paymentID := uuid.NewString()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`UPDATE orders SET payment_status = ?, payment_id = ? WHERE session_id = ? AND payment_status = ?`,
		models.PaymentPaid, paymentID, sessionID, models.PaymentPending,
	); err != nil {
		return "", fmt.Errorf("settle session orders: %w", err)
	}
	if session.Status != models.SessionPaid {
		if _, err = tx.ExecContext(ctx,
			`UPDATE table_sessions SET status = ? WHERE id = ?`, models.SessionPaid, sessionID,
		); err != nil {
			return "", fmt.Errorf("advance session to paid: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit payment: %w", err)
	}
	return paymentID, nil
}

func (s *Service) listOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.SessionID, &order.TableNumber, &order.Total,
			&order.Status, &order.PaymentStatus, &order.PaymentID, &order.IsExtra, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range orders {
		if err := s.loadOrderItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *Service) loadOrderItems(ctx context.Context, order *models.Order) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT menu_item_id, name, price, quantity, notes, image FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.MenuItemID, &item.Name, &item.Price, &item.Quantity, &item.Notes, &item.Image); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}
