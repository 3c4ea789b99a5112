package report

import (
	"fmt"
	"strings"
)

// ProfileSVG draws the side outline of a body of revolution from radius
// samples rs at axial stations xs. The outline is mirrored about the axis
// and scaled uniformly to fit width by height with a margin.
func ProfileSVG(xs, rs []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(rs) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	maxR := 0.0
	for i := range xs {
		minX = min(minX, xs[i])
		maxX = max(maxX, xs[i])
		maxR = max(maxR, rs[i])
	}
	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = 1
	}
	if maxR == 0 {
		maxR = 1
	}

	const margin = 0.05
	w, h := float64(width), float64(height)
	scale := min(w*(1-2*margin)/rangeX, h*(1-2*margin)/(2*maxR))
	x0 := w*margin - minX*scale
	mid := h / 2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333344" stroke-dasharray="4 4"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, mid, width, mid, strokeColor))

	for i := range xs {
		x := x0 + xs[i]*scale
		y := mid - rs[i]*scale
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	for i := len(xs) - 1; i >= 0; i-- {
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x0+xs[i]*scale, mid+rs[i]*scale))
	}

	sb.WriteString(` Z"/>
</svg>`)
	return sb.String()
}
