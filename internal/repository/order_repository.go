package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

// OrderRepo is the durable order store backed by MySQL.  Orders live in
// the orders table and their seats in order_seats, whose unique key on
// (movie_id, showtime, ticket_class, seat_id) makes a double sale
// impossible at the storage level even across processes.  Orders are
// append-only: the repo exposes no update or delete.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `id, movie_id, movie_title, showtime, ticket_class, customer_name, customer_email,
       membership, ticket_subtotal, admin_fee, total, snack_included, payment_method, created_at`

// Append inserts the order and its seats in one transaction and returns
// the order with its assigned ID.  The commit has completed before Append
// returns, so a nil error means the order is durable.  A unique key
// violation on order_seats is reported as *model.SeatsUnavailableError
// naming the conflicting seats.
func (r *OrderRepo) Append(ctx context.Context, o model.Order) (model.Order, error) {
	if len(o.Seats) == 0 {
		return model.Order{}, model.ErrNoSeatsSelected
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO orders (movie_id, movie_title, showtime, ticket_class, customer_name, customer_email,
                    membership, ticket_subtotal, admin_fee, total, snack_included, payment_method, created_at)
                 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		o.MovieID, o.MovieTitle, o.Showtime, string(o.TicketClass), o.CustomerName, o.CustomerEmail,
		string(o.Membership), o.TicketSubtotal, o.AdminFee, o.Total, o.SnackIncluded, o.PaymentMethod,
		o.CreatedAt.UTC())
	if err != nil {
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Order{}, fmt.Errorf("order id: %w", err)
	}
	o.ID = uint64(id)

	if err := insertSeatsTx(ctx, tx, o); err != nil {
		if isDuplicateKey(err) {
			_ = tx.Rollback()
			committed = true // rolled back explicitly
			return model.Order{}, r.conflictError(ctx, o)
		}
		return model.Order{}, fmt.Errorf("insert order seats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, fmt.Errorf("commit order: %w", err)
	}
	committed = true
	return o, nil
}

// insertSeatsTx writes all seats of o in a single statement.  Position
// keeps the customer's seat order.
func insertSeatsTx(ctx context.Context, tx *sql.Tx, o model.Order) error {
	var b strings.Builder
	b.WriteString(`INSERT INTO order_seats (order_id, movie_id, showtime, ticket_class, seat_id, position) VALUES `)
	args := make([]interface{}, 0, len(o.Seats)*6)
	for i, seat := range o.Seats {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args, o.ID, o.MovieID, o.Showtime, string(o.TicketClass), seat, i)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

// conflictError looks up which of o's seats are already sold.
func (r *OrderRepo) conflictError(ctx context.Context, o model.Order) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(o.Seats)), ",")
	q := `SELECT seat_id FROM order_seats
          WHERE movie_id = ? AND showtime = ? AND ticket_class = ? AND seat_id IN (` + placeholders + `)`
	args := []interface{}{o.MovieID, o.Showtime, string(o.TicketClass)}
	for _, s := range o.Seats {
		args = append(args, s)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return &model.SeatsUnavailableError{Seats: o.Seats}
	}
	defer rows.Close()
	taken := make(map[string]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return &model.SeatsUnavailableError{Seats: o.Seats}
		}
		taken[s] = true
	}
	conflicts := make([]string, 0, len(taken))
	for _, s := range o.Seats {
		if taken[s] {
			conflicts = append(conflicts, s)
		}
	}
	if len(conflicts) == 0 {
		conflicts = o.Seats
	}
	return &model.SeatsUnavailableError{Seats: conflicts}
}

// ListAll returns every order, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

// ListByCustomerEmail returns the orders placed with email, newest first.
// Emails are compared case-insensitively.
func (r *OrderRepo) ListByCustomerEmail(ctx context.Context, email string) ([]model.Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders WHERE LOWER(customer_email) = ? ORDER BY id DESC`, email)
}

// ListByShowtime returns the orders for one showtime and ticket class.
func (r *OrderRepo) ListByShowtime(ctx context.Context, key model.ShowtimeKey, class model.TicketClass) ([]model.Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders
                         WHERE movie_id = ? AND showtime = ? AND ticket_class = ? ORDER BY id DESC`,
		key.MovieID, key.Showtime, string(class))
}

func (r *OrderRepo) query(ctx context.Context, q string, args ...interface{}) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := []model.Order{}
	index := map[uint64]int{}
	for rows.Next() {
		var o model.Order
		var class, membership string
		if err := rows.Scan(&o.ID, &o.MovieID, &o.MovieTitle, &o.Showtime, &class, &o.CustomerName,
			&o.CustomerEmail, &membership, &o.TicketSubtotal, &o.AdminFee, &o.Total, &o.SnackIncluded,
			&o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.TicketClass = model.TicketClass(class)
		o.Membership = model.MembershipTier(membership)
		o.Seats = []string{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}
	if err := r.loadSeats(ctx, orders, index); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadSeats fills Seats for the given orders in their original order.
func (r *OrderRepo) loadSeats(ctx context.Context, orders []model.Order, index map[uint64]int) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orders)), ",")
	args := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		args = append(args, o.ID)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT order_id, seat_id FROM order_seats WHERE order_id IN (`+placeholders+`) ORDER BY order_id, position`,
		args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var seat string
		if err := rows.Scan(&id, &seat); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			orders[i].Seats = append(orders[i].Seats, seat)
		}
	}
	return rows.Err()
}
