package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"sales-dashboard/internal/models"
)

// Plot area on an A4 landscape page, in millimetres.
const (
	plotLeft   = 30.0
	plotTop    = 45.0
	plotWidth  = 240.0
	plotHeight = 110.0
)

var (
	headerColor    = [3]int{40, 40, 40}
	barColor       = [3]int{0, 130, 200}
	highlightColor = [3]int{230, 100, 0}
	lineColor      = [3]int{200, 200, 200}
	bodyTextColor  = [3]int{50, 50, 50}
)

// PDF writes one landscape page per chart with the bars drawn directly on the
// page. Charts without data show the placeholder message instead.
func (e *Exporter) PDF(dash *models.Dashboard, base, dir string) (string, error) {
	outputFilename, err := e.filename(base, dir, FormatPDF)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i, s := range dash.Charts {
		pdf.AddPage()

		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr("  "+dash.Title), "", 1, "L", true, 0, "")

		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.SetFont("Arial", "B", 12)
		pdf.Ln(4)
		pdf.CellFormat(0, 8, tr(s.Title), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, tr(selectionLine(dash.Selection, s.Group)), "", 1, "L", false, 0, "")

		if s.Empty || len(s.Points) == 0 {
			drawPlaceholder(pdf, tr)
		} else {
			drawBars(pdf, tr, s)
		}

		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Generated %s", dash.GeneratedAt.Format("2006-01-02 15:04 MST"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", i+1), "", 0, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func selectionLine(sel models.Selection, group models.ChartGroup) string {
	if group == models.GroupPerBranch {
		if sel.PerBranch.ApplyMonth {
			return "Month: " + sel.PerBranch.Month
		}
		return "All months"
	}
	branch, month := "All branches", "All months"
	if sel.Overview.ApplyBranch {
		branch = "Branch: " + sel.Overview.Branch
	}
	if sel.Overview.ApplyMonth {
		month = "Month: " + sel.Overview.Month
	}
	return branch + " | " + month
}

func drawPlaceholder(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Rect(plotLeft, plotTop, plotWidth, plotHeight, "D")
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(128, 128, 128)
	pdf.SetXY(plotLeft, plotTop+plotHeight/2-5)
	pdf.CellFormat(plotWidth, 10, tr(models.NoDataMessage), "", 0, "C", false, 0, "")
}

func drawBars(pdf *gofpdf.Fpdf, tr func(string) string, s models.Series) {
	maxValue := 0.0
	for _, p := range s.Points {
		maxValue = math.Max(maxValue, p.Value)
	}
	if maxValue == 0 {
		maxValue = 1
	}

	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	baseline := plotTop + plotHeight
	pdf.Line(plotLeft, baseline, plotLeft+plotWidth, baseline)
	pdf.Line(plotLeft, plotTop, plotLeft, baseline)

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.TransformBegin()
	pdf.TransformRotate(90, plotLeft-12, plotTop+plotHeight/2)
	pdf.Text(plotLeft-12-plotHeight/4, plotTop+plotHeight/2, tr(s.YLabel))
	pdf.TransformEnd()
	pdf.SetXY(plotLeft, baseline+22)
	pdf.CellFormat(plotWidth, 6, tr(s.XLabel), "", 0, "C", false, 0, "")

	slot := plotWidth / float64(len(s.Points))
	barWidth := slot * 0.6

	for i, p := range s.Points {
		color := barColor
		if i == 0 && s.ShareLabel != "" {
			color = highlightColor
		}
		h := plotHeight * p.Value / maxValue
		x := plotLeft + float64(i)*slot + (slot-barWidth)/2
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Rect(x, baseline-h, barWidth, h, "F")

		value := fmt.Sprintf("%.2f", p.Value)
		if p.Percent != nil {
			value = fmt.Sprintf("%.2f (%.1f%%)", p.Value, *p.Percent)
		}
		pdf.SetFont("Arial", "", 7)
		pdf.Text(x+barWidth/2-pdf.GetStringWidth(value)/2, baseline-h-1.5, tr(value))

		label := tr(p.Key)
		if s.RotateLabels {
			lx, ly := x+barWidth/2, baseline+3
			pdf.TransformBegin()
			pdf.TransformRotate(-45, lx, ly)
			pdf.Text(lx, ly, label)
			pdf.TransformEnd()
			continue
		}
		pdf.Text(x+barWidth/2-pdf.GetStringWidth(label)/2, baseline+5, label)
	}
}
