package apiserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"hexarena/internal/command"
	"hexarena/internal/engine"
	"hexarena/internal/entity"
	"hexarena/internal/errkind"
	"hexarena/internal/eventbus"
	"hexarena/internal/hexgrid"
	"hexarena/internal/observability"
	"hexarena/internal/render"
	"hexarena/internal/transport"
)

type handlers struct {
	engine *engine.Engine
	hub    *transport.Hub
}

// handleCreate is game/create: allocate a game, place its fortress,
// seed starting resources, and transition it to Active.
func (h *handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Owner string `json:"owner"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	id := entity.NewID()
	g, err := h.engine.CreateGame(id, req.Owner)
	if err != nil {
		writeErrkind(w, err)
		return
	}
	writeJSON(w, map[string]any{"game": g.ID})
}

// handleGet is game/get: return a serialized game snapshot.
func (h *handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}
	writeJSON(w, g.Snapshot())
}

// handleSubscribe is game/subscribe: upgrade to a WebSocket subscriber
// registered on the named game.
func (h *handlers) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		writeError(w, "missing game id", http.StatusBadRequest)
		return
	}
	h.hub.HandleSubscribe(w, r, gameID)
}

// handleTarget is game/target: fan on_target(position) to every
// player-aligned entity in the selected list.
func (h *handlers) handleTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Game     string   `json:"game"`
		Selected []string `json:"selected"`
		Position string   `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	g, ok := h.engine.Game(req.Game)
	if !ok {
		writeError(w, "game not found", http.StatusNotFound)
		return
	}
	pos, err := parsePosition(req.Position)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, id := range req.Selected {
		e, ok := g.EntityByID(id)
		if !ok || e.Alignment != entity.Player {
			continue
		}
		command.Target(e, g, pos)
		g.Broadcast(eventbus.EntityTarget(e.ID, pos))
		observability.EventsEmitted.WithLabelValues("entity/target").Inc()
	}
	writeJSON(w, map[string]any{"ok": true})
}

// handleCommand is game/command: fan on_command(key,value) to the
// target entity's behaviors, surfacing the first error.
func (h *handlers) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Game   string `json:"game"`
		Target string `json:"target"`
		Key    string `json:"key"`
		Value  string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	g, ok := h.engine.Game(req.Game)
	if !ok {
		writeError(w, "game not found", http.StatusNotFound)
		return
	}
	e, ok := g.EntityByID(req.Target)
	if !ok {
		writeError(w, "entity not found", http.StatusNotFound)
		return
	}
	if err := command.Command(e, g, req.Key, req.Value); err != nil {
		observability.CommandRejections.WithLabelValues(kindLabel(err)).Inc()
		writeErrkind(w, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// handleQuery is game/query: return the target entity's available
// command affordances.
func (h *handlers) handleQuery(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}
	targetID := r.URL.Query().Get("target")
	e, ok := g.EntityByID(targetID)
	if !ok {
		writeError(w, "entity not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"commands": command.Query(e, g)})
}

// handleDebugPNG renders a debug snapshot of the hex grid as a PNG
// image, for an operator eyeballing a running game without a browser
// client attached. Not part of spec.md's dispatcher contract.
func (h *handlers) handleDebugPNG(w http.ResponseWriter, r *http.Request) {
	g, ok := h.lookupGame(w, r)
	if !ok {
		return
	}
	png, err := render.PNG(g.Snapshot(), render.DefaultConfig())
	if err != nil {
		writeError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *handlers) lookupGame(w http.ResponseWriter, r *http.Request) (gameHandle, bool) {
	id := r.URL.Query().Get("game")
	g, ok := h.engine.Game(id)
	if !ok {
		writeError(w, "game not found", http.StatusNotFound)
		return nil, false
	}
	return g, true
}

// gameHandle narrows *worldstate.Game to what handlers need, avoiding
// a direct worldstate import here purely for readability.
type gameHandle = interface {
	EntityByID(id string) (*entity.Entity, bool)
	Snapshot() map[string]any
	Occupant(pos hexgrid.Position) (*entity.Entity, bool)
	IsOccupied(pos hexgrid.Position) bool
	FindNearest(from hexgrid.Position, radius int, match func(*entity.Entity) bool) (*entity.Entity, bool)
	FortressPosition() hexgrid.Position
	AddEntity(name string, pos hexgrid.Position, alignment entity.Alignment) (*entity.Entity, error)
	MoveEntity(e *entity.Entity, pos hexgrid.Position) error
	RemoveEntity(e *entity.Entity)
	HandleAttack(attacker, target *entity.Entity, amount int, visual string)
	HealEntity(e *entity.Entity, amount int)
	Spend(costs ...entity.ResourceCost) error
	AddResource(rt entity.ResourceType, amount float64)
	ResourceBalance(rt entity.ResourceType) float64
	QueueUpdate(id string)
}

func parsePosition(s string) (hexgrid.Position, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return hexgrid.Position{}, errkind.New(errkind.ClientError, "expected \"q,r\", got %q", s)
	}
	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return hexgrid.Position{}, errkind.New(errkind.ClientError, "bad q: %v", err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return hexgrid.Position{}, errkind.New(errkind.ClientError, "bad r: %v", err)
	}
	return hexgrid.Position{Q: q, R: r}, nil
}

func kindLabel(err error) string {
	for _, k := range []errkind.Kind{errkind.ClientError, errkind.AuthError, errkind.ConfigError, errkind.InvariantViolation, errkind.TransportFailure} {
		if errkind.Is(err, k) {
			return k.String()
		}
	}
	return "unknown"
}

// writeErrkind maps an errkind.Kind to its HTTP status per spec.md §7
// and writes the JSON error body.
func writeErrkind(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errkind.Is(err, errkind.ClientError):
		status = http.StatusBadRequest
	case errkind.Is(err, errkind.AuthError):
		status = http.StatusForbidden
	case errkind.Is(err, errkind.ConfigError):
		status = http.StatusInternalServerError
	case errkind.Is(err, errkind.InvariantViolation):
		status = http.StatusInternalServerError
	case errkind.Is(err, errkind.TransportFailure):
		status = http.StatusBadGateway
	}
	writeError(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
