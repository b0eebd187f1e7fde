package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/db"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
)

const invoiceColumns = `
	id, booking_id, booking_reference, passenger_name, passenger_email,
	issue_date, due_date, subtotal, tax, total, payment_status,
	COALESCE(payment_method, ''), COALESCE(notes, ''), created_at`

const invoiceDateLayout = "2006-01-02"

type InvoiceRepository struct {
	DB *sql.DB
}

// CreateInvoice stores the invoice and its items atomically.
func (r InvoiceRepository) CreateInvoice(ctx context.Context, inv models.Invoice) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return mysqlErr("begin invoice tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO invoices (
			id, booking_id, booking_reference, passenger_name, passenger_email,
			issue_date, due_date, subtotal, tax, total, payment_status,
			payment_method, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		inv.ID, inv.BookingID, inv.BookingReference, inv.PassengerName, inv.PassengerEmail,
		inv.IssueDate, inv.DueDate, inv.Subtotal, inv.Tax, inv.Total, string(inv.PaymentStatus),
		db.NullIfEmpty(inv.PaymentMethod), db.NullIfEmpty(inv.Notes), inv.CreatedAt,
	)
	if err != nil {
		return mysqlErr("insert invoice", err)
	}

	for i, it := range inv.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_price, total)
			VALUES (?, ?, ?, ?, ?, ?)
		`, inv.ID, i, it.Description, it.Quantity, it.UnitPrice, it.Total)
		if err != nil {
			return mysqlErr("insert invoice item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return mysqlErr("commit invoice", err)
	}
	return nil
}

// ListInvoices returns every invoice, most recently issued first.
func (r InvoiceRepository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+`
		FROM invoices
		ORDER BY issue_date DESC, created_at DESC`)
}

func (r InvoiceRepository) ListInvoicesByBooking(ctx context.Context, bookingID string) ([]models.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+`
		FROM invoices
		WHERE booking_id = ?
		ORDER BY issue_date DESC, created_at DESC`, bookingID)
}

func (r InvoiceRepository) GetInvoice(ctx context.Context, id string) (models.Invoice, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, domain.NotFoundError{Resource: "invoice", ID: id}
	}
	if err != nil {
		return models.Invoice{}, mysqlErr("get invoice", err)
	}

	items, err := r.loadItems(ctx, []string{id})
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Items = itemsOrEmpty(items[id])
	return inv, nil
}

func (r InvoiceRepository) UpdateInvoicePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, method string, at time.Time) (models.Invoice, error) {
	var (
		res sql.Result
		err error
	)
	if method == "" {
		res, err = r.DB.ExecContext(ctx,
			`UPDATE invoices SET payment_status = ?, updated_at = ? WHERE id = ?`,
			string(status), at, id)
	} else {
		res, err = r.DB.ExecContext(ctx,
			`UPDATE invoices SET payment_status = ?, payment_method = ?, updated_at = ? WHERE id = ?`,
			string(status), method, at, id)
	}
	if err != nil {
		return models.Invoice{}, mysqlErr("update invoice payment status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Invoice{}, domain.NotFoundError{Resource: "invoice", ID: id}
	}
	return r.GetInvoice(ctx, id)
}

func (r InvoiceRepository) list(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mysqlErr("list invoices", err)
	}
	defer rows.Close()

	out := []models.Invoice{}
	ids := []string{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, mysqlErr("scan invoice", err)
		}
		out = append(out, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mysqlErr("list invoices", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = itemsOrEmpty(items[out[i].ID])
	}
	return out, nil
}

func (r InvoiceRepository) loadItems(ctx context.Context, invoiceIDs []string) (map[string][]models.InvoiceItem, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(invoiceIDs)), ",")
	args := make([]any, 0, len(invoiceIDs))
	for _, id := range invoiceIDs {
		args = append(args, id)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT invoice_id, description, quantity, unit_price, total
		FROM invoice_items
		WHERE invoice_id IN (`+placeholders+`)
		ORDER BY invoice_id, position`, args...)
	if err != nil {
		return nil, mysqlErr("load invoice items", err)
	}
	defer rows.Close()

	out := map[string][]models.InvoiceItem{}
	for rows.Next() {
		var (
			invoiceID string
			it        models.InvoiceItem
		)
		if err := rows.Scan(&invoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, mysqlErr("scan invoice item", err)
		}
		out[invoiceID] = append(out[invoiceID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, mysqlErr("load invoice items", err)
	}
	return out, nil
}

func scanInvoice(s rowScanner) (models.Invoice, error) {
	var (
		inv       models.Invoice
		issueDate time.Time
		dueDate   time.Time
		status    string
	)
	err := s.Scan(
		&inv.ID, &inv.BookingID, &inv.BookingReference, &inv.PassengerName, &inv.PassengerEmail,
		&issueDate, &dueDate, &inv.Subtotal, &inv.Tax, &inv.Total, &status,
		&inv.PaymentMethod, &inv.Notes, &inv.CreatedAt,
	)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.IssueDate = issueDate.Format(invoiceDateLayout)
	inv.DueDate = dueDate.Format(invoiceDateLayout)
	inv.PaymentStatus = models.PaymentStatus(status)
	inv.CreatedAt = inv.CreatedAt.UTC()
	return inv, nil
}

func itemsOrEmpty(items []models.InvoiceItem) []models.InvoiceItem {
	if items == nil {
		return []models.InvoiceItem{}
	}
	return items
}
