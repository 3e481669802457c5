package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades HTTP requests into change-feed WebSocket streams.
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new realtime handler backed by the hub.
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// HandleConnection subscribes the caller to one table's change feed.
// Query parameters:
//
//	table   required, one of profiles|posts|participations|messages
//	events  optional comma-separated INSERT,UPDATE,DELETE (default: all)
//	filter  optional equality predicate, column=eq.value
func (h *Handler) HandleConnection(c *gin.Context) {
	table := c.Query("table")
	switch table {
	case TableProfiles, TablePosts, TableParticipations, TableMessages:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown table"})
		return
	}

	var ops []Operation
	if eventsParam := c.Query("events"); eventsParam != "" {
		for _, raw := range strings.Split(eventsParam, ",") {
			switch op := Operation(strings.ToUpper(strings.TrimSpace(raw))); op {
			case OpInsert, OpUpdate, OpDelete:
				ops = append(ops, op)
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type"})
				return
			}
		}
	}

	filter, err := parseFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.hub.Subscribe(table, ops, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sub.Close()
		h.logger.Error().
			Err(err).
			Str("table", table).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &wsClient{
		conn:   conn,
		sub:    sub,
		logger: h.logger.With().Str("table", table).Logger(),
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("table", table).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Realtime connection established")
}

// parseFilter parses the column=eq.value form used on the wire.
func parseFilter(raw string) (*Filter, error) {
	if raw == "" {
		return nil, nil
	}

	column, rest, ok := strings.Cut(raw, "=")
	if !ok || column == "" {
		return nil, errInvalidFilter
	}
	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return nil, errInvalidFilter
	}
	return &Filter{Column: column, Value: value}, nil
}
