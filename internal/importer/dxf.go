package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/workshopos/cutengine/internal/model"
)

// point is a 2D coordinate in drawing units (mm).
type point struct {
	x, y float64
}

// segment is a line segment between two points, used for chaining
// disconnected LINE and ARC entities into closed shapes.
type segment struct {
	start point
	end   point
}

const (
	chainTolerance = 0.01
	arcSegments    = 32
	circleSegments = 64
)

// ImportDXF imports parts from a DXF drawing. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs and ARCs) becomes one Part sized to
// the shape's bounding box. Nesting works on rectangles, so the bounding box
// is the conservative blank the shape will be cut from.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes [][]point
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			shape := lwPolylinePoints(e)
			if len(shape) >= 3 {
				shapes = append(shapes, shape)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			shapes = append(shapes, circlePoints(e))

		case *entity.Arc:
			pts := arcPoints(e)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, segment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{x: e.Start[0], y: e.Start[1]},
				end:   point{x: e.End[0], y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped.
		}
	}

	for _, chained := range chainSegments(segments) {
		if len(chained) >= 3 {
			shapes = append(shapes, chained)
		}
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	partNum := 0
	for _, shape := range shapes {
		partNum++
		length, width := boundingBox(shape)

		if length < chainTolerance || width < chainTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", length, width))
			continue
		}

		part := model.NewPart(fmt.Sprintf("DXF Part %d", partNum), length, width, 1)
		result.Parts = append(result.Parts, part)
	}

	return result
}

// boundingBox returns the X extent (length) and Y extent (width) of a shape.
func boundingBox(pts []point) (float64, float64) {
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}
	return maxX - minX, maxY - minY
}

// lwPolylinePoints converts an LWPOLYLINE to a point loop. Vertices carrying
// a bulge get an interpolated arc to the following vertex.
func lwPolylinePoints(lw *entity.LwPolyline) []point {
	var pts []point
	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point{x: v[0], y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point{x: lw.Vertices[nextIdx][0], y: lw.Vertices[nextIdx][1]}
			arc := bulgePoints(current, next, bulge)
			pts = append(pts, arc[:len(arc)-1]...)
		} else {
			pts = append(pts, current)
		}
	}
	return pts
}

// bulgePoints interpolates an arc between two endpoints given a DXF bulge
// factor (the tangent of a quarter of the included angle).
func bulgePoints(p1, p2 point, bulge float64) []point {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chord := math.Sqrt(dx*dx + dy*dy)
	if chord < 1e-9 {
		return []point{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	perpX := -dy / chord
	perpY := dx / chord
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else if endAngle < startAngle {
		endAngle += 2 * math.Pi
	}

	pts := make([]point, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		t := float64(i) / float64(arcSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point{
			x: cx + radius*math.Cos(angle),
			y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circlePoints approximates a circle as a regular polygon.
func circlePoints(c *entity.Circle) []point {
	pts := make([]point, circleSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := range pts {
		angle := 2 * math.Pi * float64(i) / float64(circleSegments)
		pts[i] = point{
			x: cx + r*math.Cos(angle),
			y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// arcPoints converts an ARC entity to a point sequence.
func arcPoints(a *entity.Arc) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		t := float64(i) / float64(arcSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{
			x: cx + r*math.Cos(angle),
			y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// chainSegments connects loose segments into closed shapes. Endpoints within
// chainTolerance of each other are treated as coincident.
func chainSegments(segs []segment) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var shapes [][]point

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only keep chains that close back onto their starting point.
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1]) {
			shapes = append(shapes, chain[:len(chain)-1])
		}
	}

	// Largest shapes first for stable part numbering.
	sort.Slice(shapes, func(i, j int) bool {
		li, wi := boundingBox(shapes[i])
		lj, wj := boundingBox(shapes[j])
		return li*wi > lj*wj
	})

	return shapes
}

func pointsClose(a, b point) bool {
	dx := a.x - b.x
	dy := a.y - b.y
	return math.Sqrt(dx*dx+dy*dy) <= chainTolerance
}
