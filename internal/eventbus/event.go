// Package eventbus builds the JSON-serializable event payloads
// broadcast to subscribers (C8). It owns only the shapes; the fan-out
// and per-tick coalescing mechanics live on worldstate.Game, which
// owns the subscriber set and queued-updates buffer (C6 data model).
package eventbus

import (
	"hexarena/internal/entity"
	"hexarena/internal/hexgrid"
)

// SerializeEntity returns the wire representation of a live entity,
// excluding internal bookkeeping fields per spec.md §6 (time_until_update,
// the derived index maps, the subscriber set, queued-updates, and the
// occupancy map itself never leave the engine).
func SerializeEntity(e *entity.Entity) map[string]any {
	return map[string]any{
		"id":            e.ID,
		"position":      map[string]int{"q": e.Position.Q, "r": e.Position.R},
		"hp":             e.HP,
		"max_hp":         e.MaxHP,
		"alignment":      int(e.Alignment),
		"entity_tag":     int(e.Tag),
		"resource_type":  string(e.ResourceType),
		"vision_size":    e.VisionSize,
		"name":           e.Name,
		"images":         e.Render.Images,
		"tint":           e.Render.Tint,
		"size":           e.Render.Size,
		"death_visual":   e.Render.DeathVisual,
	}
}

// EntityAdd is broadcast whenever add_entity publishes a new live
// instance.
func EntityAdd(e *entity.Entity) map[string]any {
	return map[string]any{"type": "entity/add", "entity": SerializeEntity(e)}
}

// EntityUpdate batches every entity flushed from a tick's
// queued_updates set into a single message, per the C8 coalescer.
func EntityUpdate(entities []*entity.Entity) map[string]any {
	serialized := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		serialized = append(serialized, SerializeEntity(e))
	}
	return map[string]any{"type": "entity/update", "entities": serialized}
}

// EntityRemove is the terminal event for a tombstoned entity.
func EntityRemove(id, visual string) map[string]any {
	return map[string]any{"type": "entity/remove", "id": id, "visual": visual}
}

// EntityAttack is broadcast by handle_attack regardless of whether the
// target died.
func EntityAttack(sourceID, targetID, visual string) map[string]any {
	return map[string]any{"type": "entity/attack", "source": sourceID, "target": targetID, "visual": visual}
}

// EntityTarget mirrors a target(position) command back to subscribers.
func EntityTarget(sourceID string, pos hexgrid.Position) map[string]any {
	return map[string]any{
		"type":   "entity/target",
		"source": sourceID,
		"target": map[string]int{"q": pos.Q, "r": pos.R},
	}
}

// EntityProgress reports a Train queue's production progress.
func EntityProgress(parentID, event string, queue int, progress, duration float64) map[string]any {
	return map[string]any{
		"type":     "entity/progress",
		"parent":   parentID,
		"event":    event,
		"queue":    queue,
		"progress": progress,
		"duration": duration,
	}
}

// Resource is a signed resource-pool delta.
func Resource(rt entity.ResourceType, amount float64) map[string]any {
	return map[string]any{"type": "resource", "resource_type": string(rt), "amount": amount}
}

// Reveal carries the serialized boundary of a grown revealed area.
func Reveal(boundary []hexgrid.Position) map[string]any {
	coords := make([][2]int, 0, len(boundary))
	for _, p := range boundary {
		coords = append(coords, [2]int{p.Q, p.R})
	}
	return map[string]any{"type": "reveal", "area": coords}
}

// GameEnd is the terminal lifecycle event for Essential loss or
// KillObjective success.
func GameEnd(success bool, label string) map[string]any {
	return map[string]any{"type": "game/end", "success": success, "label": label}
}
