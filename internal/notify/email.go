package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/config"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/domain/models"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

const Brand = "Overberg Transport Connect"

var statusMessages = map[models.BookingStatus]string{
	models.StatusPending:   "Your booking is pending confirmation.",
	models.StatusConfirmed: "Your booking has been confirmed!",
	models.StatusCompleted: "Your booking has been completed. Thank you for travelling with us.",
	models.StatusCancelled: "Your booking has been cancelled.",
}

var statusAccents = map[models.BookingStatus]string{
	models.StatusPending:   "#ffc107",
	models.StatusConfirmed: "#28a745",
	models.StatusCompleted: "#17a2b8",
	models.StatusCancelled: "#dc3545",
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email sends customer and operator mail over SMTP.
type Email struct {
	sender    Sender
	from      string
	operator  string
	publicURL string
	loc       *time.Location
	tmpl      *template.Template
	now       func() time.Time
}

func NewEmail(cfg config.SMTPConfig, app config.AppConfig) (*Email, error) {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return newEmail(d, cfg.From, cfg.Recipient, app.PublicAPIURL, utils.LoadLocation(app.Timezone))
}

func newEmail(sender Sender, from, operator, publicURL string, loc *time.Location) (*Email, error) {
	tmpl, err := template.New("mail").Funcs(template.FuncMap{
		"money": utils.FormatRand,
		"upper": strings.ToUpper,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Email{
		sender:    sender,
		from:      from,
		operator:  operator,
		publicURL: strings.TrimRight(publicURL, "/"),
		loc:       loc,
		tmpl:      tmpl,
		now:       time.Now,
	}, nil
}

func (e *Email) Name() string { return "email" }

type mailData struct {
	Brand    string
	Accent   string
	SentAt   string
	Message  string
	Status   string
	Link     string
	Booking  models.Booking
	Invoice  models.Invoice
	Callback models.CallbackRequest
}

func (e *Email) data(accent string) mailData {
	return mailData{
		Brand:  Brand,
		Accent: accent,
		SentAt: utils.FormatLocal(e.now(), e.loc),
	}
}

// BookingCreated mails the passenger a confirmation and the operator an
// alert.
func (e *Email) BookingCreated(ctx context.Context, b models.Booking) error {
	var errs []error
	if b.PassengerEmail != "" {
		d := e.data("#007bff")
		d.Booking = b
		errs = append(errs, e.send(ctx, b.PassengerEmail, "Booking Confirmation - "+b.ID, "booking_confirmation.html", d))
	}
	if e.operator != "" {
		d := e.data("#28a745")
		d.Booking = b
		errs = append(errs, e.send(ctx, e.operator, "New Booking Received - "+b.ID, "booking_alert.html", d))
	}
	return errors.Join(errs...)
}

func (e *Email) StatusChanged(ctx context.Context, b models.Booking, status models.BookingStatus) error {
	if b.PassengerEmail == "" {
		return nil
	}
	d := e.data(statusAccents[status])
	if d.Accent == "" {
		d.Accent = "#007bff"
	}
	d.Booking = b
	d.Status = string(status)
	d.Message = statusMessages[status]
	if d.Message == "" {
		d.Message = "Your booking status has been updated."
	}
	return e.send(ctx, b.PassengerEmail, "Booking Status Update - "+b.ID, "status_update.html", d)
}

func (e *Email) InvoiceIssued(ctx context.Context, b models.Booking, inv models.Invoice) error {
	to := inv.PassengerEmail
	if to == "" {
		to = b.PassengerEmail
	}
	if to == "" {
		return nil
	}
	d := e.data("#007bff")
	d.Booking = b
	d.Invoice = inv
	if e.publicURL != "" {
		d.Link = e.publicURL + "/invoices/" + inv.ID
	}
	return e.send(ctx, to, "Invoice - "+inv.BookingReference, "invoice.html", d)
}

func (e *Email) CallbackRequested(ctx context.Context, req models.CallbackRequest) error {
	if e.operator == "" {
		return nil
	}
	d := e.data("#6f42c1")
	d.Callback = req
	return e.send(ctx, e.operator, "Callback Request - "+req.Name, "callback_request.html", d)
}

func (e *Email) render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Email) send(ctx context.Context, to, subject, tmpl string, data mailData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := e.render(tmpl, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(e.from, Brand))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := e.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send %q to %s: %w", subject, to, err)
	}
	return nil
}
