package api

import (
	stdhttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	h "github.com/EthanAnonymous/Skeel-Kameel/internal/http/handlers"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/http/middleware"
	"github.com/EthanAnonymous/Skeel-Kameel/internal/utils"
)

// Deps carries everything the router mounts.
type Deps struct {
	Log         logrus.FieldLogger
	CORSOrigins []string
	// StaticDir holds the built web client; empty disables the SPA fallback.
	StaticDir string

	Bookings  h.BookingAPI
	Invoices  h.InvoiceAPI
	Quotes    h.QuoteAPI
	Callbacks h.CallbackAPI
	System    *h.SystemHandler
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = utils.DiscardLogger()
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(d.Log), gin.Recovery(), middleware.CORS(d.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		d.Log.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(noRoute(d.StaticDir))

	bookings := h.BookingHandler{Bookings: d.Bookings, Invoices: d.Invoices}
	invoices := h.InvoiceHandler{Invoices: d.Invoices}
	fares := h.FareHandler{Quotes: d.Quotes}
	callbacks := h.CallbackHandler{Callbacks: d.Callbacks}
	system := d.System
	if system == nil {
		system = &h.SystemHandler{}
	}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)
		api.GET("/routes", system.Routes)

		b := api.Group("/bookings")
		b.POST("", bookings.Create)
		b.GET("", bookings.List)
		b.GET("/:id", bookings.Get)
		b.PATCH("/:id/status", bookings.UpdateStatus)
		b.POST("/:id/cancel", bookings.Cancel)
		b.DELETE("/:id", bookings.Delete)

		inv := api.Group("/invoices")
		inv.POST("", invoices.Create)
		inv.GET("", invoices.List)
		inv.GET("/booking/:booking_id", invoices.ListByBooking)
		inv.GET("/:id", invoices.Get)
		inv.PATCH("/:id/payment-status", invoices.UpdatePaymentStatus)

		api.GET("/fares/estimate", fares.Estimate)
		api.GET("/rates", fares.Rates)
		api.POST("/callbacks", callbacks.Create)
	}

	system.SetRouter(r)
	return r
}

// noRoute answers unknown /api paths with JSON and everything else with the
// web client, so client-side routes survive a reload.
func noRoute(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if staticDir == "" || strings.HasPrefix(urlPath, "/api/") || urlPath == "/api" ||
			(c.Request.Method != stdhttp.MethodGet && c.Request.Method != stdhttp.MethodHead) {
			c.JSON(stdhttp.StatusNotFound, gin.H{
				"error":      "route not found",
				"code":       "not_found",
				"path":       urlPath,
				"method":     c.Request.Method,
				"request_id": middleware.GetRequestID(c),
			})
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+urlPath)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
