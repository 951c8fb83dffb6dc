package geom

// ClipHalfPlane keeps the part of polygon that is at least as close to site
// as to other. The result is the polygon intersected with the half-plane
// bounded by the perpendicular bisector of site and other.
func ClipHalfPlane(polygon []Point, site, other Point) []Point {
	if len(polygon) == 0 {
		return polygon
	}

	// Points p with (p - m) . n <= 0 are on the site side, where m is the
	// midpoint and n points from site to other.
	m := Midpoint(site, other)
	nx := other.X - site.X
	ny := other.Y - site.Y
	if nx == 0 && ny == 0 {
		return polygon
	}

	side := func(p Point) float64 {
		return (p.X-m.X)*nx + (p.Y-m.Y)*ny
	}

	out := make([]Point, 0, len(polygon)+1)
	prev := polygon[len(polygon)-1]
	prevSide := side(prev)
	for _, cur := range polygon {
		curSide := side(cur)
		if curSide <= 0 {
			if prevSide > 0 {
				out = append(out, intersect(prev, cur, prevSide, curSide))
			}
			out = append(out, cur)
		} else if prevSide <= 0 {
			out = append(out, intersect(prev, cur, prevSide, curSide))
		}
		prev, prevSide = cur, curSide
	}
	return out
}

func intersect(a, b Point, sa, sb float64) Point {
	t := sa / (sa - sb)
	return Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

// ContainsPoint reports whether p is inside the convex polygon, edges included.
// Winding direction does not matter.
func ContainsPoint(polygon []Point, p Point) bool {
	if len(polygon) < 3 {
		return false
	}
	var pos, neg bool
	for i := range polygon {
		a := polygon[i]
		b := polygon[(i+1)%len(polygon)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// Area returns the absolute area of a simple polygon
func Area(polygon []Point) float64 {
	var sum float64
	for i := range polygon {
		a := polygon[i]
		b := polygon[(i+1)%len(polygon)]
		sum += a.X*b.Y - b.X*a.Y
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}
