// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fleetchain/ledger/business/web/errs"
	"github.com/fleetchain/ledger/foundation/events"
	"github.com/fleetchain/ledger/foundation/ledger"
	"github.com/fleetchain/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log    *zap.SugaredLogger
	Ledger *ledger.Ledger
	WS     websocket.Upgrader
	Evts   *events.Events
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTelemetry seals a new vehicle telemetry record into the chain.
func (h Handlers) SubmitTelemetry(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTelemetry
	if err := web.Decode(r, &nt); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add telemetry", "traceid", v.TraceID, "vehicle", nt.VehicleID)

	if err := h.Ledger.Append(ctx, nt.VehicleID, nt.Sensors); err != nil {
		switch {
		case ledger.IsValidationError(err), ledger.IsSerializationError(err):
			return errs.NewTrusted(err, http.StatusBadRequest)

		case errors.Is(err, ledger.ErrMiningCancelled):
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return err
	}

	tail := h.Ledger.LatestBlock()

	resp := struct {
		Status string `json:"status"`
		Block  block  `json:"block"`
	}{
		Status: "telemetry sealed into chain",
		Block:  toBlock(tail),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the first block of the chain.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBlock(h.Ledger.Genesis()), http.StatusOK)
}

// Verify reports whether the chain is free of tampering.
func (h Handlers) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid  bool `json:"valid"`
		Blocks int  `json:"blocks"`
	}{
		Valid:  h.Ledger.Verify(),
		Blocks: len(h.Ledger.Blocks()),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the full chain, or only the blocks for the vehicle
// specified on the route.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	vehicle := web.Param(r, "vehicle")

	var blocks []ledger.Block
	if vehicle != "" {
		blocks = h.Ledger.QueryVehicle(vehicle)
	} else {
		blocks = h.Ledger.Blocks()
	}

	out := make([]block, len(blocks))
	for i, blk := range blocks {
		out[i] = toBlock(blk)
	}

	return web.Respond(ctx, w, out, http.StatusOK)
}
