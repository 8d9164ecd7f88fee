package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/carta/cards"
	"github.com/lazharichir/carta/carta"
	"github.com/lazharichir/carta/events"
	"github.com/lazharichir/carta/game"
	"github.com/lazharichir/carta/server/connection"
	serverevents "github.com/lazharichir/carta/server/events"
	"github.com/lazharichir/carta/server/handlers"
	"github.com/rs/cors"
	"k8s.io/klog/v2"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are enforced by the CORS layer for REST only
	},
}

// Options configures the server
type Options struct {
	Addr           string
	AllowedOrigins []string
}

// Server serves Carta sessions over REST and WebSocket
type Server struct {
	games      *game.Manager
	store      events.EventStore
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *serverevents.Dispatcher
	handler    http.Handler
	httpServer *http.Server
}

// MoveRequest is the body of POST /api/games/{id}/moves
type MoveRequest struct {
	Token string `json:"token"`
}

// MoveResponse answers a move
type MoveResponse struct {
	Result   game.TurnResult `json:"result"`
	Snapshot game.Snapshot   `json:"snapshot"`
}

// EventResponse is one entry of a game's event log
type EventResponse struct {
	Name    string       `json:"name"`
	Payload events.Event `json:"payload"`
}

// NewServer creates a server recording sessions into store
func NewServer(store events.EventStore, opts Options, sessionOpts ...game.SessionOption) *Server {
	publisher := events.NewPublishingEventStore(store)
	games := game.NewManager(publisher, sessionOpts...)
	connMgr := connection.NewManager()

	dispatcher := serverevents.NewDispatcher(connMgr)
	publisher.AddEventHandler(dispatcher.HandleEvent)

	s := &Server{
		games:      games,
		store:      publisher,
		connMgr:    connMgr,
		cmdRouter:  handlers.NewCommandRouter(games, connMgr),
		dispatcher: dispatcher,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/games", s.handleCreateGame).Methods(http.MethodPost)
	r.HandleFunc("/api/games", s.handleListGames).Methods(http.MethodGet)
	r.HandleFunc("/api/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	r.HandleFunc("/api/games/{id}/moves", s.handleMove).Methods(http.MethodPost)
	r.HandleFunc("/api/games/{id}/events", s.handleGetEvents).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket)
	r.Use(loggingMiddleware)

	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	s.handler = c.Handler(r)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Games returns the session manager
func (s *Server) Games() *game.Manager {
	return s.games
}

// Start listens on Options.Addr until Shutdown
func (s *Server) Start() error {
	klog.Infof("Starting server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		klog.V(1).Infof("%s %s %s", r.Method, r.RequestURI, time.Since(start))
	})
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		klog.Errorf("Error upgrading to WebSocket: %v", err)
		return
	}

	clientID := uuid.NewString()
	klog.Infof("New client connected: %s with ID: %s", r.RemoteAddr, clientID)

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	s.connMgr.Register(client)

	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads commands from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister(client)
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				klog.Errorf("WebSocket read error: %v", err)
			}
			break
		}

		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			klog.V(1).Infof("Client %s command failed: %v", client.ID, err)
		}
	}
}

// writePump sends queued messages to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	defer client.Conn.Close()

	for message := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			klog.Errorf("Error writing message: %v", err)
			return
		}
	}
	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var rules game.Rules
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&rules); err != nil {
			errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	session, err := s.games.Create(rules)
	if err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}
	response(w, http.StatusCreated, session.Snapshot())
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sessions := s.games.List()
	snapshots := make([]game.Snapshot, 0, len(sessions))
	for _, session := range sessions {
		snapshots = append(snapshots, session.Snapshot())
	}
	response(w, http.StatusOK, snapshots)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}
	response(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	session, err := s.games.Get(mux.Vars(r)["id"])
	if err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}

	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := session.Submit(req.Token)
	if err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}
	response(w, http.StatusOK, MoveResponse{Result: result, Snapshot: session.Snapshot()})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := s.games.Get(id); err != nil {
		errorResponse(w, statusFor(err), err.Error())
		return
	}

	evs, err := s.store.LoadEvents(id)
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]EventResponse, len(evs))
	for i, e := range evs {
		out[i] = EventResponse{Name: e.EventName(), Payload: e}
	}
	response(w, http.StatusOK, out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrSessionEnded):
		return http.StatusConflict
	case errors.Is(err, carta.ErrInvalidDirection), errors.Is(err, carta.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrInvalidRules), errors.Is(err, carta.ErrInvalidGrid),
		errors.Is(err, cards.ErrCardNotFound), errors.Is(err, cards.ErrDeckUnderflow):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// response sends a JSON body
func response(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		klog.Errorf("Failed to encode response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}
