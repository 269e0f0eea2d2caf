package pdf

import (
	"fmt"
	"strings"

	"github.com/bookpress/backend/internal/domain/print"
)

// ptToMm converts a font size in points to millimeters, the scene's user unit
const ptToMm = 25.4 / 72.0

// placeholderFill is drawn where an image object has no usable source
const placeholderFill = "#d0d0d0"

// BuildSVG serializes a scene into an SVG document whose user units are
// scene millimeters. The viewport maps the given box (normally the bleed
// box, so negative coordinates are visible) onto a raster of widthPx by
// heightPx.
func BuildSVG(scene *print.Scene, viewport print.Box, widthPx, heightPx int) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%s %s %s %s">`,
		widthPx, heightPx,
		mm(viewport.X), mm(viewport.Y), mm(viewport.Width), mm(viewport.Height))

	background := scene.BackgroundFill
	if background == "" {
		background = "#ffffff"
	}
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
		mm(viewport.X), mm(viewport.Y), mm(viewport.Width), mm(viewport.Height),
		escapeAttr(background))

	for _, obj := range scene.Objects {
		writeObject(&b, obj)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func writeObject(b *strings.Builder, obj print.Drawable) {
	transform := ""
	if obj.Rotation != 0 {
		cx := obj.X + obj.Width/2
		cy := obj.Y + obj.Height/2
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, mm(obj.Rotation), mm(cx), mm(cy))
	}
	opacity := ""
	if obj.Opacity > 0 && obj.Opacity < 1 {
		opacity = fmt.Sprintf(` opacity="%s"`, mm(obj.Opacity))
	}

	switch obj.Type {
	case print.ObjectShape:
		fill := obj.Fill
		if fill == "" {
			return
		}
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s%s/>`,
			mm(obj.X), mm(obj.Y), mm(obj.Width), mm(obj.Height),
			escapeAttr(fill), transform, opacity)

	case print.ObjectImage:
		if obj.SourceURL == "" {
			fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s/>`,
				mm(obj.X), mm(obj.Y), mm(obj.Width), mm(obj.Height),
				placeholderFill, transform)
			return
		}
		fmt.Fprintf(b,
			`<image x="%s" y="%s" width="%s" height="%s" href="%s" preserveAspectRatio="xMidYMid slice"%s%s/>`,
			mm(obj.X), mm(obj.Y), mm(obj.Width), mm(obj.Height),
			escapeAttr(obj.SourceURL), transform, opacity)

	case print.ObjectText:
		if obj.Text == "" {
			return
		}
		family := obj.FontFamily
		if family == "" {
			family = "sans-serif"
		}
		sizeMm := obj.FontSizePt * ptToMm
		if sizeMm <= 0 {
			sizeMm = 12 * ptToMm
		}
		fill := obj.Fill
		if fill == "" {
			fill = "#000000"
		}
		// Text anchors at the baseline; offset by the font size so obj.Y
		// stays the top edge like every other object.
		fmt.Fprintf(b,
			`<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s"%s%s>%s</text>`,
			mm(obj.X), mm(obj.Y+sizeMm), escapeAttr(family), mm(sizeMm),
			escapeAttr(fill), transform, opacity, escapeText(obj.Text))
	}
}

// mm formats a millimeter value compactly, trimming trailing zeros
func mm(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }
