// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/fleetchain/ledger/app/services/ledger/handlers/v1/public"
	"github.com/fleetchain/ledger/foundation/events"
	"github.com/fleetchain/ledger/foundation/ledger"
	"github.com/fleetchain/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log    *zap.SugaredLogger
	Ledger *ledger.Ledger
	Evts   *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:    cfg.Log,
		Ledger: cfg.Ledger,
		WS:     websocket.Upgrader{},
		Evts:   cfg.Evts,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/chain/verify", pbl.Verify)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/list/:vehicle", pbl.Blocks)
	app.Handle(http.MethodPost, version, "/telemetry/submit", pbl.SubmitTelemetry)
}
