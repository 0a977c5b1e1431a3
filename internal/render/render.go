// Package render paints chart geometry onto a raster canvas with gg.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/i474232898/weather-radial-chart/internal/chart"
)

const (
	backgroundColor     = "#ffffff"
	gridColor           = "#dadadd"
	textColor           = "#8395a7"
	darkTextColor       = "#34495e"
	ringLabelBackground = "#f8f9fa"
	freezingColor       = "#18dcff"
	uvColor             = "#feca57"
	cloudColor          = "#c8d6e5"
	indicatorColor      = "#5f27cd"
	tooltipBackground   = "#ffffff"

	labelFontSize   = 11
	tooltipFontSize = 12
	tooltipWidth    = 170
	tooltipPadding  = 10
	tooltipLine     = 16
	tooltipGap      = 12
)

var (
	fontOnce sync.Once
	fontErr  error
	goFont   *truetype.Font
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	return goFont, fontErr
}

func newFace(size float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

// painter draws chart-local geometry, offsetting every point by the chart
// centre.
type painter struct {
	dc     *gg.Context
	center chart.Point
	label  font.Face
	body   font.Face
}

func (p *painter) xy(pt chart.Point) (float64, float64) {
	return pt.X + p.center.X, pt.Y + p.center.Y
}

// Draw paints the chart. When res is non-nil its hover wedge is overlaid and,
// if it resolved to a record, the tooltip panel as well.
func Draw(g chart.Geometry, res *chart.Resolution) (*gg.Context, error) {
	label, err := newFace(labelFontSize)
	if err != nil {
		return nil, err
	}
	body, err := newFace(tooltipFontSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(int(math.Ceil(g.Dimensions.Width)), int(math.Ceil(g.Dimensions.Height)))
	dc.SetHexColor(backgroundColor)
	dc.Clear()

	p := &painter{dc: dc, center: g.Center, label: label, body: body}
	p.drawFreezing(g)
	p.drawMonths(g.Months)
	p.drawRings(g.TemperatureRings)
	p.drawBand(g)
	p.drawUV(g.UVMarkers)
	p.drawDots(g.CloudDots, cloudColor, 1)
	p.drawDots(g.PrecipitationDots, "", 0.7)
	p.drawAnnotations(g.Annotations)
	p.drawLegend(g.PrecipitationLegend)

	if res != nil {
		p.drawIndicator(res.Indicator)
		if res.Tooltip != nil {
			p.drawTooltip(res.Anchor, *res.Tooltip)
		}
	}
	return dc, nil
}

// PNG draws the chart and encodes it.
func PNG(g chart.Geometry, res *chart.Resolution) ([]byte, error) {
	dc, err := Draw(g, res)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := dc.EncodePNG(buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHex(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}

func withAlpha(s string, alpha float64) color.Color {
	a := uint8(math.Round(alpha * 255))
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{A: a}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

func (p *painter) drawFreezing(g chart.Geometry) {
	if g.FreezingRadius <= 0 {
		return
	}
	p.dc.DrawCircle(p.center.X, p.center.Y, g.FreezingRadius)
	p.dc.SetColor(withAlpha(freezingColor, 0.15))
	p.dc.Fill()
}

func anchorX(textAnchor string) float64 {
	switch textAnchor {
	case chart.AnchorMiddle:
		return 0.5
	case chart.AnchorEnd:
		return 1
	default:
		return 0
	}
}

func (p *painter) drawMonths(months []chart.MonthSpoke) {
	p.dc.SetFontFace(p.label)
	for _, m := range months {
		x0, y0 := p.xy(chart.Point{})
		x1, y1 := p.xy(m.End)
		p.dc.SetHexColor(gridColor)
		p.dc.SetLineWidth(1)
		p.dc.DrawLine(x0, y0, x1, y1)
		p.dc.Stroke()

		lx, ly := p.xy(m.LabelAnchor)
		p.dc.SetHexColor(textColor)
		p.dc.DrawStringAnchored(strings.ToUpper(m.Label), lx, ly, anchorX(m.TextAnchor), 0.5)
	}
}

func (p *painter) drawRings(rings []chart.TemperatureRing) {
	p.dc.SetFontFace(p.label)
	for _, r := range rings {
		p.dc.DrawCircle(p.center.X, p.center.Y, r.Radius)
		p.dc.SetHexColor(gridColor)
		p.dc.SetLineWidth(1)
		p.dc.Stroke()
	}
	for _, r := range rings {
		if !r.Labeled {
			continue
		}
		bx, by := p.xy(chart.Point{X: r.Background.X, Y: r.Background.Y})
		p.dc.DrawRectangle(bx, by, r.Background.Width, r.Background.Height)
		p.dc.SetHexColor(ringLabelBackground)
		p.dc.Fill()

		lx, ly := p.xy(r.LabelAnchor)
		p.dc.SetHexColor(textColor)
		p.dc.DrawStringAnchored(r.Label, lx, ly, 0, 0.5)
	}
}

func (p *painter) drawBand(g chart.Geometry) {
	if len(g.Band) == 0 {
		return
	}
	for i, v := range g.Band {
		x, y := p.xy(v.Outer)
		if i == 0 {
			p.dc.MoveTo(x, y)
			continue
		}
		p.dc.LineTo(x, y)
	}
	for i := len(g.Band) - 1; i >= 0; i-- {
		x, y := p.xy(g.Band[i].Inner)
		p.dc.LineTo(x, y)
	}
	p.dc.ClosePath()

	outer := g.Dimensions.BoundedRadius
	grad := gg.NewRadialGradient(p.center.X, p.center.Y, 0, p.center.X, p.center.Y, outer)
	for _, s := range g.Gradient {
		grad.AddColorStop(s.Offset, parseHex(s.Color))
	}
	p.dc.SetFillStyle(grad)
	p.dc.Fill()
}

func (p *painter) drawUV(markers []chart.UVMarker) {
	p.dc.SetHexColor(uvColor)
	p.dc.SetLineWidth(2)
	for _, m := range markers {
		x0, y0 := p.xy(m.Start)
		x1, y1 := p.xy(m.End)
		p.dc.DrawLine(x0, y0, x1, y1)
		p.dc.Stroke()
	}
}

// drawDots fills each dot with fill, or with the dot's own colour when fill
// is empty.
func (p *painter) drawDots(dots []chart.Dot, fill string, alpha float64) {
	for _, d := range dots {
		if d.Radius <= 0 {
			continue
		}
		c := fill
		if c == "" {
			c = d.Color
		}
		x, y := p.xy(d.Center)
		p.dc.DrawCircle(x, y, d.Radius)
		p.dc.SetColor(withAlpha(c, alpha))
		p.dc.Fill()
	}
}

func (p *painter) drawAnnotations(annotations []chart.Annotation) {
	p.dc.SetFontFace(p.label)
	for _, a := range annotations {
		x0, y0 := p.xy(a.Start)
		x1, y1 := p.xy(a.End)
		p.dc.SetHexColor(darkTextColor)
		p.dc.SetLineWidth(1)
		p.dc.DrawLine(x0, y0, x1, y1)
		p.dc.Stroke()

		lx, ly := p.xy(a.LabelAnchor)
		p.dc.DrawStringAnchored(a.Label, lx, ly, 0, 0.5)
	}
}

func (p *painter) drawLegend(entries []chart.LegendEntry) {
	p.dc.SetFontFace(p.label)
	for _, e := range entries {
		sx, sy := p.xy(e.Swatch)
		p.dc.DrawCircle(sx, sy, e.SwatchRadius)
		p.dc.SetColor(withAlpha(e.Color, 0.7))
		p.dc.Fill()

		lx, ly := p.xy(e.LabelAnchor)
		p.dc.SetHexColor(textColor)
		p.dc.DrawStringAnchored(string(e.Type), lx, ly, 0, 0.5)
	}
}

func (p *painter) drawIndicator(w chart.Wedge) {
	x0, y0 := p.xy(w.Corners[0])
	x1, y1 := p.xy(w.Corners[1])
	p.dc.MoveTo(x0, y0)
	p.dc.LineTo(x1, y1)
	// gg angles start east; chart angles start north.
	p.dc.DrawArc(x0, y0, w.OuterRadius, w.StartAngle-math.Pi/2, w.EndAngle-math.Pi/2)
	p.dc.ClosePath()
	p.dc.SetColor(withAlpha(indicatorColor, 0.35))
	p.dc.Fill()
}

func tooltipLines(t chart.Tooltip) []string {
	precip := t.PrecipPct
	if t.PrecipType != "" {
		precip += " " + t.PrecipType
	}
	return []string{
		t.DateLabel,
		fmt.Sprintf("%s - %s", t.TempMin, t.TempMax),
		"UV Index: " + t.UV,
		"Cloud Cover: " + t.Cloud,
		"Precipitation: " + precip,
	}
}

// tooltipOrigin positions the panel's top-left corner so that it extends
// away from the chart along each axis.
func tooltipOrigin(a chart.TooltipAnchor, w, h float64) (float64, float64) {
	x, y := a.Canvas.X, a.Canvas.Y
	switch a.Horizontal {
	case chart.PlaceBefore:
		x -= w + tooltipGap
	case chart.PlaceAfter:
		x += tooltipGap
	default:
		x -= w / 2
	}
	switch a.Vertical {
	case chart.PlaceBefore:
		y -= h + tooltipGap
	case chart.PlaceAfter:
		y += tooltipGap
	default:
		y -= h / 2
	}
	return x, y
}

func (p *painter) drawTooltip(a chart.TooltipAnchor, t chart.Tooltip) {
	lines := tooltipLines(t)
	h := float64(len(lines))*tooltipLine + 2*tooltipPadding
	x, y := tooltipOrigin(a, tooltipWidth, h)

	p.dc.DrawRoundedRectangle(x, y, tooltipWidth, h, 4)
	p.dc.SetHexColor(tooltipBackground)
	p.dc.FillPreserve()
	p.dc.SetHexColor(gridColor)
	p.dc.SetLineWidth(1)
	p.dc.Stroke()

	p.dc.SetFontFace(p.body)
	for i, line := range lines {
		ly := y + tooltipPadding + float64(i)*tooltipLine + tooltipLine/2
		p.dc.SetHexColor(darkTextColor)
		p.dc.DrawStringAnchored(line, x+tooltipPadding, ly, 0, 0.5)
	}

	// swatches for the temperature and precipitation colours
	swatchX := x + tooltipWidth - tooltipPadding - 4
	for i, c := range []string{t.TempMinColor, t.TempMaxColor} {
		p.dc.DrawCircle(swatchX-float64(i)*10, y+tooltipPadding+tooltipLine*1.5, 4)
		p.dc.SetHexColor(c)
		p.dc.Fill()
	}
	p.dc.DrawCircle(swatchX, y+tooltipPadding+tooltipLine*4.5, 4)
	p.dc.SetHexColor(t.PrecipColor)
	p.dc.Fill()
}
