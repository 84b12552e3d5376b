package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fluidsim/config"
	"fluidsim/core"
	"fluidsim/physics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the stream carries no secrets; any origin may watch
	},
}

// controlMessage is what a browser client may send back: perturbations and a
// pause toggle.
type controlMessage struct {
	AddDensity  *perturbation `json:"addDensity,omitempty"`
	AddVelocity *perturbation `json:"addVelocity,omitempty"`
	Paused      *bool         `json:"paused,omitempty"`
}

type perturbation struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Amount float64 `json:"amount"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

// streamServer steps the simulation on a fixed tick and broadcasts each
// density frame to every connected websocket client.
type streamServer struct {
	settings config.Settings

	// mu guards grid and solver: the sim loop and the per-connection
	// readers both touch them.
	mu     sync.Mutex
	grid   *core.Grid
	solver *physics.Solver
	paused bool

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

// runServer blocks, serving the web client and the frame stream.
func runServer(settings config.Settings, grid *core.Grid, solver *physics.Solver) {
	s := &streamServer{
		settings: settings,
		grid:     grid,
		solver:   solver,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
	}

	go s.simLoop()

	http.HandleFunc("/", s.serveHome)
	http.HandleFunc("/ws", s.handleWebSocket)
	http.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static/"))))

	addr := fmt.Sprintf(":%d", settings.Server.Port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func (s *streamServer) serveHome(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, "web/index.html")
}

func (s *streamServer) simLoop() {
	ticker := time.NewTicker(time.Duration(s.settings.Server.UpdateIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	sol := s.settings.Solver
	for range ticker.C {
		s.mu.Lock()
		if !s.paused {
			s.solver.Step(float32(sol.Timestep), sol.Iterations,
				sol.DiffusionRate, sol.Viscosity, sol.FadeRate)
		}
		frame := s.encodeFrame()
		s.mu.Unlock()

		s.broadcast(frame)
	}
}

// encodeFrame packs the grid size and the current density field into a
// little-endian binary frame. Callers must hold mu.
func (s *streamServer) encodeFrame() []byte {
	density := s.grid.DensityView()
	buf := make([]byte, 4+len(density)*4)
	binary.LittleEndian.PutUint32(buf, uint32(s.grid.Size()))
	for i, v := range density {
		binary.LittleEndian.PutUint32(buf[4+i*4:], math.Float32bits(v))
	}
	return buf
}

func (s *streamServer) broadcast(frame []byte) {
	s.clientsMu.RLock()
	var failed []*websocket.Conn
	for conn, mu := range s.clients {
		mu.Lock()
		err := conn.WriteMessage(websocket.BinaryMessage, frame)
		mu.Unlock()
		if err != nil {
			log.Printf("websocket write: %v", err)
			conn.Close()
			failed = append(failed, conn)
		}
	}
	s.clientsMu.RUnlock()

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, conn := range failed {
			delete(s.clients, conn)
		}
		s.clientsMu.Unlock()
	}
}

func (s *streamServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	connMu := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMu
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	// First frame immediately so the client can size its canvas.
	s.mu.Lock()
	frame := s.encodeFrame()
	s.mu.Unlock()
	connMu.Lock()
	err = conn.WriteMessage(websocket.BinaryMessage, frame)
	connMu.Unlock()
	if err != nil {
		return
	}

	for {
		var msg controlMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read: %v", err)
			}
			return
		}
		s.apply(msg)
	}
}

func (s *streamServer) apply(msg controlMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := float32(s.settings.Solver.Timestep)
	if p := msg.AddDensity; p != nil {
		if err := s.grid.AddDensity(p.X, p.Y, float32(p.Amount), dt); err != nil {
			log.Printf("rejected perturbation: %v", err)
		}
	}
	if p := msg.AddVelocity; p != nil {
		if err := s.grid.AddVelocity(p.X, p.Y, float32(p.DX), float32(p.DY), dt); err != nil {
			log.Printf("rejected perturbation: %v", err)
		}
	}
	if msg.Paused != nil {
		s.paused = *msg.Paused
	}
}
