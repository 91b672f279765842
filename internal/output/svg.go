package output

import (
	"fmt"
	"strings"
)

// ScatterLayer is one body's particle cloud with its plot color.
type ScatterLayer struct {
	Name   string
	Color  string
	Points [][2]float64
}

// ScatterSVG renders particle clouds as an SVG scatter plot. Bounds
// are taken from the data with a 10% margin; y grows upward.
func ScatterSVG(layers []ScatterLayer, width, height int) string {
	minX, minY := 0.0, 0.0
	maxX, maxY := 1.0, 1.0
	first := true
	for _, l := range layers {
		for _, p := range l.Points {
			if first {
				minX, maxX = p[0], p[0]
				minY, maxY = p[1], p[1]
				first = false
				continue
			}
			if p[0] < minX {
				minX = p[0]
			}
			if p[0] > maxX {
				maxX = p[0]
			}
			if p[1] < minY {
				minY = p[1]
			}
			if p[1] > maxY {
				maxY = p[1]
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	radius := float64(width) / 400
	if radius < 1 {
		radius = 1
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, l := range layers {
		sb.WriteString(fmt.Sprintf(`<g fill="%s">
`, l.Color))
		for _, p := range l.Points {
			x := (p[0] - minX) / rangeX * float64(width)
			y := float64(height) - (p[1]-minY)/rangeY*float64(height)
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, x, y, radius))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
