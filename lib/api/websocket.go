package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	statsInterval = 2 * time.Second
	writeTimeout  = 10 * time.Second

	// events queued per client before new ones are dropped
	clientQueue = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(req *http.Request) bool {
		return true
	},
}

// @Summary	Open websocket for realtime stats and window events
// @Router		/api/ws [get]
// @Param		Upgrade	header	string	true	"websocket"
// @Tags		base
// @Success	101
func (a *Api) handleWebsocket(w http.ResponseWriter, req *http.Request) {
	ws, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		a.logger.Warn(fmt.Sprintf("couldn't make websocket: %s", err))
		return
	}

	queue := make(chan []byte, clientQueue)
	a.addClient(ws, queue)
	defer a.removeClient(ws)

	go a.websocketWriter(ws, queue)

	for {
		_, msg, err := ws.ReadMessage()
		if err != nil {
			break
		}
		a.logger.Debug(fmt.Sprintf("Received: %s", msg))
	}
}

func (a *Api) addClient(ws *websocket.Conn, queue chan []byte) {
	a.clientsMutex.Lock()
	defer a.clientsMutex.Unlock()
	a.wsClients[ws] = queue
	a.Stats.SetWsClients(len(a.wsClients))
}

func (a *Api) removeClient(ws *websocket.Conn) {
	a.clientsMutex.Lock()
	defer a.clientsMutex.Unlock()
	if queue, ok := a.wsClients[ws]; ok {
		close(queue)
		delete(a.wsClients, ws)
	}
	a.Stats.SetWsClients(len(a.wsClients))
}

// broadcast queues packet for every client without blocking the caller.
func (a *Api) broadcast(packet []byte) {
	a.clientsMutex.Lock()
	defer a.clientsMutex.Unlock()
	for _, queue := range a.wsClients {
		select {
		case queue <- packet:
		default:
		}
	}
}

// websocketWriter is the only goroutine writing to ws.
func (a *Api) websocketWriter(ws *websocket.Conn, queue <-chan []byte) {
	statsTicker := time.NewTicker(statsInterval)
	defer func() {
		statsTicker.Stop()
		err := ws.Close()
		if err != nil {
			a.logger.Debug(fmt.Sprintf("could not close websocket: %s", err))
		}
	}()

	if !a.writeStats(ws) {
		return
	}
	for {
		select {
		case packet, ok := <-queue:
			if !ok {
				return
			}
			if !a.write(ws, packet) {
				return
			}
		case <-statsTicker.C:
			if !a.writeStats(ws) {
				return
			}
		}
	}
}

func (a *Api) writeStats(ws *websocket.Conn) bool {
	packet, err := json.Marshal(struct {
		Event string `json:"event"`
		Stats any    `json:"stats"`
	}{"stats", a.Stats.Snapshot()})
	if err != nil {
		return false
	}
	return a.write(ws, packet)
}

func (a *Api) write(ws *websocket.Conn, packet []byte) bool {
	err := ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err != nil {
		a.logger.Warn(fmt.Sprintf("could not set write deadline: %s", err))
		return false
	}
	return ws.WriteMessage(websocket.TextMessage, packet) == nil
}
