package graph

import "github.com/Sid-Romero/tech-roadmap/internal/roadmap"

// Edge is the rendering record for one dependency link: a cubic Bezier
// from the parent's bottom-center to the child's top-center, with both
// control points pinned to the midpoint height so the curve falls
// straight out of one node and into the other.
type Edge struct {
	ParentID string
	ChildID  string
	Start    roadmap.Coordinates
	C1       roadmap.Coordinates
	C2       roadmap.Coordinates
	End      roadmap.Coordinates
	Active   bool
}

// Edges builds the rendering records for every dependency pair that
// resolves. Dangling ids yield no edge. An edge is active once the
// parent is done and the child is no longer locked.
func Edges(projects []roadmap.Project) []Edge {
	byID := make(map[string]roadmap.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	var edges []Edge
	for _, child := range projects {
		for _, dep := range child.Dependencies {
			parent, ok := byID[dep]
			if !ok {
				continue
			}
			edges = append(edges, newEdge(parent, child))
		}
	}
	return edges
}

func newEdge(parent, child roadmap.Project) Edge {
	start := roadmap.Coordinates{X: parent.Position.X, Y: parent.Position.Y + HitHalfHeight}
	end := roadmap.Coordinates{X: child.Position.X, Y: child.Position.Y - HitHalfHeight}
	midY := (start.Y + end.Y) / 2
	return Edge{
		ParentID: parent.ID,
		ChildID:  child.ID,
		Start:    start,
		C1:       roadmap.Coordinates{X: start.X, Y: midY},
		C2:       roadmap.Coordinates{X: end.X, Y: midY},
		End:      end,
		Active:   parent.Status == roadmap.StatusDone && child.Status != roadmap.StatusLocked,
	}
}

// PointAt evaluates the edge's Bezier at t in [0,1], for plotting.
func PointAt(e Edge, t float64) roadmap.Coordinates {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return roadmap.Coordinates{
		X: b0*e.Start.X + b1*e.C1.X + b2*e.C2.X + b3*e.End.X,
		Y: b0*e.Start.Y + b1*e.C1.Y + b2*e.C2.Y + b3*e.End.Y,
	}
}
