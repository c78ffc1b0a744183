// Package console serves the shop-facing HTTP surface: the TwiML entry
// point for inbound calls, order feeds for the TV screen and barista
// console, and a server-sent-events stream that pushes order changes to
// both pages.
package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/stillmatic/bobaline/pkg/events"
	"github.com/stillmatic/bobaline/pkg/logutil"
	"github.com/stillmatic/bobaline/pkg/notify"
	"github.com/stillmatic/bobaline/pkg/order"
)

type Server struct {
	Store    *order.Store
	Bus      *events.Bus
	Notifier notify.Notifier

	// VoiceHost overrides the Host header in the generated stream URL.
	// WSScheme defaults to wss.
	VoiceHost string
	WSScheme  string
}

// Register attaches all console routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /voice", s.handleVoice)
	mux.HandleFunc("GET /orders.json", s.handleOrdersJSON)
	mux.HandleFunc("GET /orders/in_progress.json", s.handleInProgressJSON)
	mux.HandleFunc("GET /orders", s.handleOrdersTV)
	mux.HandleFunc("GET /barista", s.handleBarista)
	mux.HandleFunc("GET /orders/events", s.handleEvents)
	mux.HandleFunc("GET /api/orders/phone/{number}", s.handlePhone)
	mux.HandleFunc("POST /api/orders/{number}/done", s.handleDone)
	mux.HandleFunc("POST /api/seed", s.handleSeed)
}

// handleVoice answers the telephony provider's webhook with TwiML that
// connects the call to our media-stream websocket.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	host := s.VoiceHost
	if host == "" {
		host = r.Host
	}
	scheme := s.WSScheme
	if scheme == "" {
		scheme = "wss"
	}
	twiml := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say>Connecting you to the Deepgram BobaRista.</Say>
  <Connect>
    <Stream url="%s://%s/twilio" />
  </Connect>
</Response>`, scheme, host)
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprint(w, twiml)
}

func limitParam(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleOrdersJSON(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Store.Recent(r.Context(), limitParam(r, 50))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleInProgressJSON(w http.ResponseWriter, r *http.Request) {
	orders, err := s.Store.InProgress(r.Context(), limitParam(r, 100))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleOrdersTV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, ordersTVHTML)
}

func (s *Server) handleBarista(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, baristaHTML)
}

func (s *Server) handlePhone(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")
	phone, err := s.Store.Phone(r.Context(), number)
	if err != nil && !errors.Is(err, order.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_number": number, "phone": phone})
}

// handleDone marks an order ready, pushes the change to connected screens,
// and texts the customer. SMS failure is logged but does not fail the
// request; the order is already marked.
func (s *Server) handleDone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logutil.LoggerFromContext(ctx)
	number := r.PathValue("number")

	if err := s.Store.SetStatus(ctx, number, order.StatusReady); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if s.Bus != nil {
		s.Bus.Publish(events.Event{
			Type:        events.TypeOrderStatusChanged,
			OrderNumber: number,
			Status:      order.StatusReady,
		})
	}
	phone, err := s.Store.Phone(ctx, number)
	if err == nil && phone != "" && s.Notifier != nil {
		if err := s.Notifier.OrderReady(ctx, number, phone); err != nil {
			logger.ErrorContext(ctx, "error sending ready text", "order_number", number, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleSeed creates demo orders so the screens have something to show.
// Orders run through the normal stage/checkout/finalize path under a fixed
// demo phone number.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logutil.LoggerFromContext(ctx)

	n := 2
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			n = parsed
		}
	}
	if n < 1 || n > 10 {
		http.Error(w, "n must be between 1 and 10", http.StatusBadRequest)
		return
	}

	created := []string{}
	for i := 0; i < n; i++ {
		sess := order.NewSession(s.Store)
		sess.Stage("taro milk tea", []string{"boba"}, "", "", nil)
		po, err := sess.Checkout(ctx, "+16145550123")
		if err != nil {
			logger.WarnContext(ctx, "seed checkout failed", "error", err)
			continue
		}
		o, err := sess.Finalize(ctx, po.Number)
		if err != nil {
			logger.WarnContext(ctx, "seed finalize failed", "error", err)
			continue
		}
		if s.Bus != nil {
			s.Bus.Publish(events.Event{
				Type:        events.TypeOrderCreated,
				OrderNumber: o.Number,
				Status:      o.Status,
			})
		}
		created = append(created, o.Number)
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "orders": created})
}

// handleEvents streams bus events to the page as server-sent events until
// the client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	id, ch := s.Bus.Subscribe()
	defer s.Bus.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
