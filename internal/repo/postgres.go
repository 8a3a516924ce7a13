package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookhive/order-service/internal/entities"
	"github.com/bookhive/order-service/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var orderColumns = []string{
	"order_number", "user_id", "customer_name", "customer_email",
	"customer_phone", "address_line1", "address_line2", "city",
	"state", "zip_code", "country", "status", "comments", "created_at",
}

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *postgresRepo) SaveOrder(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.OrderNumber, o.UserID, o.Customer.Name, o.Customer.Email,
			o.Customer.Phone, o.DeliveryAddress.AddressLine1, nullString(o.DeliveryAddress.AddressLine2),
			o.DeliveryAddress.City, o.DeliveryAddress.State, o.DeliveryAddress.ZipCode,
			o.DeliveryAddress.Country, string(o.Status), nullString(o.Comments), o.CreatedAt,
		).
		MustSql()

	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *postgresRepo) SaveItems(ctx context.Context, orderNumber string, items []entities.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").
		Columns("order_number", "code", "name", "price", "quantity")

	for _, it := range items {
		q = q.Values(orderNumber, it.Code, it.Name, it.Price, it.Quantity)
	}

	query, args := q.MustSql()
	_, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save items: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetOrderByNumber(ctx context.Context, orderNumber string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_number": orderNumber}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.selectItems(ctx, orderNumber)
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, items), nil
}

func (r *postgresRepo) GetUserOrder(ctx context.Context, userID, orderNumber string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_number": orderNumber, "user_id": userID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		// Orders of other users are indistinguishable from missing ones.
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := r.selectItems(ctx, orderNumber)
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, items), nil
}

func (r *postgresRepo) FindByStatus(ctx context.Context, status entities.Status) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"status": string(status)}).
		OrderBy("created_at ASC").
		MustSql()

	var orders []Order
	err := r.selectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	numbers := make([]string, len(orders))
	for i, order := range orders {
		numbers[i] = order.OrderNumber
	}

	query, args = r.qb.Select("order_number", "code", "name", "price", "quantity").
		From("order_items").
		Where(sq.Eq{"order_number": numbers}).
		MustSql()

	var items []Item
	err = r.selectContext(ctx, &items, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select items: %w", err)
	}
	itemsMap := make(map[string][]Item, len(numbers))
	for _, item := range items {
		itemsMap[item.OrderNumber] = append(itemsMap[item.OrderNumber], item)
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, itemsMap[order.OrderNumber]))
	}

	return result, nil
}

func (r *postgresRepo) FindSummariesByUser(ctx context.Context, userID string) ([]entities.OrderSummary, error) {
	query, args := r.qb.Select("order_number", "status").
		From("orders").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		MustSql()

	var rows []struct {
		OrderNumber string `db:"order_number"`
		Status      string `db:"status"`
	}
	err := r.selectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select order summaries: %w", err)
	}

	summaries := make([]entities.OrderSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, entities.OrderSummary{
			OrderNumber: row.OrderNumber,
			Status:      entities.Status(row.Status),
		})
	}
	return summaries, nil
}

// UpdateStatus performs a compare-and-swap on the order row. A concurrent
// transition that already moved the order away from expected current status
// is reported as ErrInvalidTransition.
func (r *postgresRepo) UpdateStatus(ctx context.Context, orderNumber string, current, target entities.Status) error {
	query, args := r.qb.Update("orders").
		Set("status", string(target)).
		Where(sq.Eq{"order_number": orderNumber, "status": string(current)}).
		MustSql()

	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	query, args = r.qb.Select("1").
		From("orders").
		Where(sq.Eq{"order_number": orderNumber}).
		MustSql()

	var one int
	err = r.getContext(ctx, &one, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check order existence: %w", err)
	}
	return entities.ErrInvalidTransition
}

func (r *postgresRepo) selectItems(ctx context.Context, orderNumber string) ([]Item, error) {
	query, args := r.qb.Select("order_number", "code", "name", "price", "quantity").
		From("order_items").
		Where(sq.Eq{"order_number": orderNumber}).
		MustSql()

	var items []Item
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return items, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	tx := trm.ExtractTx(ctx)
	if tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
