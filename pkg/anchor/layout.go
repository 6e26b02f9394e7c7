package anchor

import "github.com/go-drift/retain/pkg/geom"

// Layout computes the new rectangle of a widget with flags f whose tracked
// rectangle is r, after the container's client area became client by
// changing its extent by (dx, dy).
//
// Each axis is evaluated on its own. Dock rules win over edge-hold rules on
// any axis they touch.
func Layout(f Flags, r geom.RectF, client geom.Rect, dx, dy int) geom.RectF {
	left, right := layoutAxis(
		r.Left, r.Right,
		float64(client.Left), float64(client.Right), float64(dx),
		f.Any(DockLeft|DockTop|DockBottom), f.Any(DockRight|DockTop|DockBottom),
		f.Has(DockLeftEx), f.Has(DockRightEx),
		f.Has(Left), f.Has(Right),
	)
	top, bottom := layoutAxis(
		r.Top, r.Bottom,
		float64(client.Top), float64(client.Bottom), float64(dy),
		f.Any(DockTop|DockLeft|DockRight), f.Any(DockBottom|DockLeft|DockRight),
		f.Has(DockTopEx), f.Has(DockBottomEx),
		f.Has(Top), f.Has(Bottom),
	)
	return geom.RectF{Left: left, Top: top, Right: right, Bottom: bottom}
}

// layoutAxis resolves one axis. lo and hi are the widget's edges, start and
// end the client's, delta the client extent change.
func layoutAxis(lo, hi, start, end, delta float64, snapLo, snapHi, exLo, exHi, holdLo, holdHi bool) (float64, float64) {
	size := hi - lo
	switch {
	case snapLo && snapHi:
		return start, end
	case snapLo:
		return start, start + size
	case snapHi:
		return end - size, end
	case exLo || exHi:
		if exLo {
			lo = start
		}
		if exHi {
			hi = end
		}
		return lo, hi
	}

	switch {
	case holdLo && holdHi:
		return lo, hi + delta
	case holdHi:
		return lo + delta, hi + delta
	case holdLo:
		return lo, hi
	default:
		return lo + delta/2, hi + delta/2
	}
}
