// seehuhn.de/go/pline - polylines with arc segments
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command genpdf draws the offset test cases. For every case and distance
// it writes a PDF which shows the input polyline in grey and the computed
// offsets in black, and renders it to PNG using Ghostscript.
package main

import (
	"flag"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/pline"
	"seehuhn.de/go/pline/offset"
	"seehuhn.de/go/pline/testcases"
)

const (
	outDir   = "testdata/offsets"
	pageSize = 200.0 // in PDF points
	margin   = 10.0
)

func main() {
	png := flag.Bool("png", false, "render PNG previews using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, tc := range testcases.All[category] {
			for i, d := range tc.Distances {
				name := fmt.Sprintf("%s_%s_%d", category, tc.Name, i)
				pdfPath := filepath.Join(outDir, name+".pdf")

				res, err := offset.Parallel(tc.Polyline, d)
				if err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
				if err := generatePDF(tc.Polyline, res, pdfPath); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}

				if *png {
					pngPath := filepath.Join(outDir, name+".png")
					if err := renderPNG(pdfPath, pngPath); err != nil {
						panic(fmt.Errorf("%s: %w", name, err))
					}
				}
			}
		}
	}
}

func generatePDF(orig *pline.Polyline, res []*pline.Polyline, pdfPath string) error {
	paper := &pdf.Rectangle{URx: pageSize, URy: pageSize}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// Map the bounding box of all curves to the page.
	box := orig.Bounds()
	for _, p := range res {
		b := p.Bounds()
		box.LLx = min(box.LLx, b.LLx)
		box.LLy = min(box.LLy, b.LLy)
		box.URx = max(box.URx, b.URx)
		box.URy = max(box.URy, b.URy)
	}
	scale := (pageSize - 2*margin) / max(box.URx-box.LLx, box.URy-box.LLy, 1e-6)
	m := matrix.Matrix{scale, 0, 0, scale, margin - box.LLx*scale, margin - box.LLy*scale}

	drawPath := func(p *path.Data) {
		coordIdx := 0
		for _, cmd := range p.Cmds {
			switch cmd {
			case path.CmdMoveTo:
				pt := p.Coords[coordIdx]
				page.MoveTo(pt.X, pt.Y)
				coordIdx++
			case path.CmdLineTo:
				pt := p.Coords[coordIdx]
				page.LineTo(pt.X, pt.Y)
				coordIdx++
			case path.CmdCubeTo:
				c := p.Coords[coordIdx : coordIdx+3]
				page.CurveTo(c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y)
				coordIdx += 3
			case path.CmdClose:
				page.ClosePath()
			}
		}
	}

	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)

	page.SetStrokeColor(color.DeviceGray(0.6))
	page.SetLineWidth(3)
	drawPath(orig.Transform(m).Path())
	page.Stroke()

	page.SetStrokeColor(color.DeviceGray(0))
	page.SetLineWidth(1)
	for _, p := range res {
		drawPath(p.Transform(m).Path())
	}
	if len(res) > 0 {
		page.Stroke()
	}

	return page.Close()
}

func renderPNG(pdfPath, pngPath string) error {
	// -r144: 2 pixels per point
	// -dGraphicsAlphaBits=4: anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r144",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
