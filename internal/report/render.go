// Package report renders a pipeline result as PNG charts and an XLSX workbook.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot/vg"

	"maritime-forecast/internal/pipeline"
)

// RenderConfig carries every presentation setting explicitly.
type RenderConfig struct {
	Charts   bool
	Workbook bool

	Width         vg.Length
	Height        vg.Length
	TitleFontSize vg.Length
	// Palette colours series in order, wrapping around.
	Palette []color.Color
}

func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Charts:        true,
		Workbook:      true,
		Width:         20 * vg.Centimeter,
		Height:        12 * vg.Centimeter,
		TitleFontSize: vg.Points(14),
		Palette: []color.Color{
			color.RGBA{R: 68, G: 1, B: 84, A: 255},
			color.RGBA{R: 59, G: 82, B: 139, A: 255},
			color.RGBA{R: 33, G: 145, B: 140, A: 255},
			color.RGBA{R: 94, G: 201, B: 98, A: 255},
			color.RGBA{R: 253, G: 231, B: 37, A: 255},
			color.RGBA{R: 85, G: 168, B: 104, A: 255},
		},
	}
}

func (c RenderConfig) color(i int) color.Color {
	if len(c.Palette) == 0 {
		return color.Black
	}
	return c.Palette[i%len(c.Palette)]
}

// WorkbookFile is the workbook name inside the report directory.
const WorkbookFile = "maritime_report.xlsx"

// Render writes the enabled outputs into dir and returns their paths.
func Render(res *pipeline.Result, dir string, cfg RenderConfig) ([]string, error) {
	if res == nil {
		return nil, fmt.Errorf("result is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	if cfg.Charts {
		charts, err := RenderCharts(res, dir, cfg)
		paths = append(paths, charts...)
		if err != nil {
			return paths, err
		}
	}
	if cfg.Workbook {
		path := filepath.Join(dir, WorkbookFile)
		if err := WriteWorkbook(res, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
