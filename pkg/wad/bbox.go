package wad

import (
	"fmt"
	"math"
)

// boundingBox infers level geometry from scanned locations and names points
// within it by compass direction from the centroid. Mappers routinely place
// ten copies of the same item in one level; "Soulsphere [NW Edge]" stays
// meaningful to players where an opaque suffix would not.
type boundingBox struct {
	xmin, ymin, xmax, ymax float64
	any                    bool
}

func newBoundingBox() *boundingBox {
	return &boundingBox{
		xmin: math.Inf(1), ymin: math.Inf(1),
		xmax: math.Inf(-1), ymax: math.Inf(-1),
	}
}

func (b *boundingBox) addPoint(x, y float64) {
	b.xmin = math.Min(b.xmin, x)
	b.ymin = math.Min(b.ymin, y)
	b.xmax = math.Max(b.xmax, x)
	b.ymax = math.Max(b.ymax, y)
	b.any = true
}

func (b *boundingBox) center() (float64, float64) {
	return (b.xmin + b.xmax) / 2, (b.ymin + b.ymax) / 2
}

// basisDistance is half the larger box dimension, the unit all distance
// bands are measured in.
func (b *boundingBox) basisDistance() float64 {
	return math.Max(b.xmax-b.xmin, b.ymax-b.ymin) / 2
}

// direction returns the compass bearing from the centroid, or "Center" for
// points too close to it to have a meaningful bearing.
func (b *boundingBox) direction(x, y float64) string {
	if b.distance(x, y) == "Center" {
		return "Center"
	}
	cx, cy := b.center()
	theta := math.Mod(math.Atan2(y-cy, x-cx)*180/math.Pi+360, 360)

	// 0 degrees is due east, counterclockwise from there.
	switch {
	case theta > 337.5 || theta <= 22.5:
		return "E"
	case theta <= 67.5:
		return "NE"
	case theta <= 112.5:
		return "N"
	case theta <= 157.5:
		return "NW"
	case theta <= 202.5:
		return "W"
	case theta <= 247.5:
		return "SW"
	case theta <= 292.5:
		return "S"
	default:
		return "SE"
	}
}

// distance buckets a point as "Center", "Edge", or "" (neither).
func (b *boundingBox) distance(x, y float64) string {
	cx, cy := b.center()
	d := math.Hypot(x-cx, y-cy)
	if d < b.basisDistance()*1/10 {
		return "Center"
	}
	if d < b.basisDistance()*4/10 {
		return "Center"
	}
	if d > b.basisDistance()*7/3 {
		return "Edge"
	}
	return ""
}

// positionName returns the compass suffix for a point: "Center", "NW",
// "NW Edge", and so on.
func (b *boundingBox) positionName(x, y float64) string {
	dir := b.direction(x, y)
	if dir == "Center" {
		return "Center"
	}
	if dist := b.distance(x, y); dist != "" {
		return fmt.Sprintf("%s %s", dir, dist)
	}
	return dir
}
