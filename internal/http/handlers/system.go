package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EthanAnonymous/Skeel-Kameel/internal/db"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
	db.QueryRower
}

type SystemHandler struct {
	DB        Pinger
	Notifiers []string

	mu     sync.RWMutex
	router *gin.Engine
}

// SetRouter stores the active gin engine for /api/routes.
func (h *SystemHandler) SetRouter(r *gin.Engine) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.router = r
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "notifiers": h.Notifiers})
}

// DBCheck pings MySQL and reports whether the schema is migrated.
func (h *SystemHandler) DBCheck(c *gin.Context) {
	if h.DB == nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "", "database is not connected")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "", "database ping failed")
		return
	}
	tables := gin.H{}
	for _, t := range []string{"bookings", "invoices", "invoice_items"} {
		tables[t] = db.HasTable(ctx, h.DB, t)
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tables": tables})
}

func (h *SystemHandler) Routes(c *gin.Context) {
	h.mu.RLock()
	r := h.router
	h.mu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "", "router is not ready")
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
