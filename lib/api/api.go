package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/learngl/learngl/lib/api/docs"
	"github.com/learngl/learngl/lib/app"
	"github.com/learngl/learngl/lib/config"
	"github.com/learngl/learngl/lib/metrics"
	"github.com/learngl/learngl/lib/stats"
)

type Api struct {
	srv http.Server
	mux *http.ServeMux
	cfg *config.ApiCfg
	app *app.App

	Stats *stats.Stats

	clientsMutex sync.Mutex
	wsClients    map[*websocket.Conn]chan []byte

	logger *slog.Logger
}

// New sets up the routes and subscribes to the app's events. It must be
// called before the render loop starts.
func New(cfg *config.ApiCfg, a *app.App) *Api {
	api := &Api{}
	api.cfg = cfg
	api.mux = http.NewServeMux()
	api.app = a
	api.srv.Addr = cfg.Bind
	api.srv.Handler = api.mux
	api.wsClients = make(map[*websocket.Conn]chan []byte)
	api.Stats = a.Stats
	api.logger = slog.Default().With(slog.String("module", "api"))

	for _, kind := range []app.EventKind{app.EventResize, app.EventKey, app.EventClose} {
		a.Events.AddEventListener(kind, func(_ *app.App, ev app.Event) {
			packet, err := json.Marshal(ev)
			if err != nil {
				api.logger.Warn(fmt.Sprintf("could not encode %s event: %s", ev.Kind, err))
				return
			}
			api.broadcast(packet)
		})
	}

	if cfg.EnableProfiler {
		api.mux.HandleFunc("/prof", api.profileCPU)
	}
	api.mux.HandleFunc("GET /api/stats", api.getStats)
	api.mux.HandleFunc("POST /api/close", api.requestClose)
	api.mux.HandleFunc("/api/ws", api.handleWebsocket)
	api.mux.Handle("/metrics", metrics.Handler())
	api.mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return api
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	a.logger.Info(fmt.Sprintf("starting web server on %s", a.cfg.Bind))
	err := a.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *Api) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

// @Summary	Get render loop statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

// @Summary	Close the window, which ends the program
// @Router		/api/close [post]
// @Tags		base
// @Success	200	{string}	string	"ok"
func (a *Api) requestClose(w http.ResponseWriter, _ *http.Request) {
	a.logger.Info("closing window as per api request")
	a.app.RequestClose()
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		a.logger.Warn(fmt.Sprintf("could not write response: %s", err))
		return
	}
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// ServeInBackground starts the API when it is configured, and returns nil
// otherwise.
func ServeInBackground(a *app.App, cfg *config.ApiCfg) *Api {
	if cfg == nil {
		return nil
	}
	theApi := New(cfg, a)
	go func() {
		err := theApi.Serve()
		if err != nil {
			theApi.logger.Error(fmt.Sprintf("web server stopped: %s", err))
		}
	}()
	return theApi
}
