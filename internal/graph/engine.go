package graph

import (
	"fmt"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
)

// Node hit box half-extents in canvas units, matching the rendered
// footprint. A pointer inside this box counts as touching the node.
const (
	HitHalfWidth  = 90.0
	HitHalfHeight = 60.0
)

// DragThreshold is the displacement below which a gesture still counts
// as a plain click rather than a drag.
const DragThreshold = 5.0

// ProjectStore is the slice of the persistence layer the engine commits
// finished gestures through. Mutations return the refreshed collection.
type ProjectStore interface {
	UpdateProject(roadmap.Project) ([]roadmap.Project, error)
}

type moveState struct {
	nodeID string
	origin roadmap.Coordinates // pointer at beginMove
	offset roadmap.Coordinates // pointer minus node position
	staged roadmap.Coordinates
	moved  bool
}

type connectState struct {
	sourceID string
	pointer  roadmap.Coordinates
}

// Engine owns structural edits to the roadmap graph: node dragging and
// dependency connect/disconnect. Gestures stage their state locally and
// persist once, at gesture end. All positions are canvas units.
type Engine struct {
	store    ProjectStore
	projects []roadmap.Project

	move    *moveState
	connect *connectState
}

func NewEngine(store ProjectStore, projects []roadmap.Project) *Engine {
	return &Engine{store: store, projects: projects}
}

// SetProjects replaces the engine's working copy, typically with the
// refreshed collection a store mutation returned.
func (e *Engine) SetProjects(projects []roadmap.Project) {
	e.projects = projects
}

func (e *Engine) Projects() []roadmap.Project {
	return e.projects
}

// Project returns a copy of the node with the given id.
func (e *Engine) Project(id string) (roadmap.Project, bool) {
	for _, p := range e.projects {
		if p.ID == id {
			return p, true
		}
	}
	return roadmap.Project{}, false
}

// NodeAt resolves the node under the pointer via a bounding-box test,
// or false when the pointer is over empty canvas.
func (e *Engine) NodeAt(pointer roadmap.Coordinates) (roadmap.Project, bool) {
	for _, p := range e.projects {
		dx := pointer.X - p.Position.X
		dy := pointer.Y - p.Position.Y
		if dx >= -HitHalfWidth && dx <= HitHalfWidth && dy >= -HitHalfHeight && dy <= HitHalfHeight {
			return p, true
		}
	}
	return roadmap.Project{}, false
}

// ============================================================
// Move gesture
// ============================================================

// BeginMove starts dragging a node. The stored position is untouched
// until EndMove decides the gesture was a real drag.
func (e *Engine) BeginMove(nodeID string, pointer roadmap.Coordinates) bool {
	p, ok := e.Project(nodeID)
	if !ok {
		return false
	}
	e.move = &moveState{
		nodeID: nodeID,
		origin: pointer,
		offset: roadmap.Coordinates{X: pointer.X - p.Position.X, Y: pointer.Y - p.Position.Y},
		staged: p.Position,
	}
	return true
}

// UpdateMove stages the candidate position for the dragged node so the
// view can track the pointer. Nothing is persisted per frame.
func (e *Engine) UpdateMove(pointer roadmap.Coordinates) {
	if e.move == nil {
		return
	}
	e.move.staged = roadmap.Coordinates{X: pointer.X - e.move.offset.X, Y: pointer.Y - e.move.offset.Y}
	dx := pointer.X - e.move.origin.X
	dy := pointer.Y - e.move.origin.Y
	if dx*dx+dy*dy > DragThreshold*DragThreshold {
		e.move.moved = true
	}
}

// EndMove finishes the gesture. A displacement under the threshold is a
// click and mutates nothing. On a persistence failure the staged state
// survives so the caller can surface the error and retry or cancel.
func (e *Engine) EndMove() (bool, error) {
	if e.move == nil {
		return false, nil
	}
	if !e.move.moved {
		e.move = nil
		return false, nil
	}
	p, ok := e.Project(e.move.nodeID)
	if !ok {
		e.move = nil
		return false, nil
	}
	p.Position = e.move.staged
	refreshed, err := e.store.UpdateProject(p)
	if err != nil {
		return false, fmt.Errorf("save position: %w", err)
	}
	e.projects = refreshed
	e.move = nil
	return true, nil
}

// CancelMove discards the staged position without persisting anything.
func (e *Engine) CancelMove() {
	e.move = nil
}

// Moving reports the node being dragged and its staged position.
func (e *Engine) Moving() (string, roadmap.Coordinates, bool) {
	if e.move == nil {
		return "", roadmap.Coordinates{}, false
	}
	return e.move.nodeID, e.move.staged, true
}

// ============================================================
// Connect gesture
// ============================================================

// BeginConnect starts a pending dependency edge from the source node,
// tracked to the live pointer for the dashed preview.
func (e *Engine) BeginConnect(sourceID string, pointer roadmap.Coordinates) bool {
	if _, ok := e.Project(sourceID); !ok {
		return false
	}
	e.connect = &connectState{sourceID: sourceID, pointer: pointer}
	return true
}

// UpdateConnect moves the pending edge's free end.
func (e *Engine) UpdateConnect(pointer roadmap.Coordinates) {
	if e.connect == nil {
		return
	}
	e.connect.pointer = pointer
}

// EndConnect resolves the node under the pointer and, when the link is
// legal, adds the source to the target's dependencies. Self-connects,
// duplicates and direct two-node cycles are silent no-ops.
func (e *Engine) EndConnect(pointer roadmap.Coordinates) (bool, error) {
	if e.connect == nil {
		return false, nil
	}
	sourceID := e.connect.sourceID
	e.connect = nil

	target, ok := e.NodeAt(pointer)
	if !ok {
		return false, nil
	}
	source, ok := e.Project(sourceID)
	if !ok {
		return false, nil
	}
	if target.ID == source.ID {
		return false, nil
	}
	if contains(target.Dependencies, source.ID) {
		return false, nil
	}
	if contains(source.Dependencies, target.ID) {
		return false, nil
	}

	target.Dependencies = append(append([]string(nil), target.Dependencies...), source.ID)
	refreshed, err := e.store.UpdateProject(target)
	if err != nil {
		return false, fmt.Errorf("save dependency: %w", err)
	}
	e.projects = refreshed
	return true, nil
}

// CancelConnect drops the pending edge without touching anything.
func (e *Engine) CancelConnect() {
	e.connect = nil
}

// Pending reports the source node and pointer of the edge preview.
func (e *Engine) Pending() (string, roadmap.Coordinates, bool) {
	if e.connect == nil {
		return "", roadmap.Coordinates{}, false
	}
	return e.connect.sourceID, e.connect.pointer, true
}

// Disconnect removes parentID from childID's dependency list. Unknown
// ids or absent links are silent no-ops.
func (e *Engine) Disconnect(parentID, childID string) (bool, error) {
	child, ok := e.Project(childID)
	if !ok {
		return false, nil
	}
	if !contains(child.Dependencies, parentID) {
		return false, nil
	}
	deps := make([]string, 0, len(child.Dependencies)-1)
	for _, d := range child.Dependencies {
		if d != parentID {
			deps = append(deps, d)
		}
	}
	child.Dependencies = deps
	refreshed, err := e.store.UpdateProject(child)
	if err != nil {
		return false, fmt.Errorf("remove dependency: %w", err)
	}
	e.projects = refreshed
	return true, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
