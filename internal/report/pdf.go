//go:build pdf

package report

import (
	"fmt"
	"time"

	"fittrack/internal/store"

	"github.com/jung-kurt/gofpdf"
)

const pdfAvailable = true

// renderWeeklyPDF 输出标题块 + 两列汇总表 + 训练类型分布表
func renderWeeklyPDF(path, username string, stats *store.ReportStats) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// 标题
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0xFF, 0x3B, 0x30)
	pdf.CellFormat(0, 14, fmt.Sprintf("Weekly Fitness Report - %s", username), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Generated: "+time.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// 周汇总表
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0x0A, 0x84, 0xFF)
	pdf.CellFormat(0, 10, "Weekly Summary", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	summary := [][2]string{
		{"Metric", "Value"},
		{"Total Workouts", fmt.Sprintf("%d", stats.TotalWorkouts)},
		{"Total Calories", fmt.Sprintf("%d kcal", stats.TotalCalories)},
		{"Total Duration", fmt.Sprintf("%d minutes", stats.TotalDuration)},
		{"Avg Calories/Workout", fmt.Sprintf("%.0f kcal", stats.AvgCalories)},
		{"Avg Duration", fmt.Sprintf("%.0f minutes", stats.AvgDuration)},
	}
	writeTable(pdf, summary)
	pdf.Ln(8)

	// 训练类型分布
	if len(stats.WorkoutTypes) > 0 {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.SetTextColor(0x0A, 0x84, 0xFF)
		pdf.CellFormat(0, 10, "Workout Breakdown", "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		rows := [][2]string{{"Workout Type", "Count"}}
		for wType, count := range stats.WorkoutTypes {
			rows = append(rows, [2]string{wType, fmt.Sprintf("%d", count)})
		}
		writeTable(pdf, rows)
	}

	return pdf.OutputFileAndClose(path)
}

// writeTable 画一个两列表格，第一行当表头加灰底
func writeTable(pdf *gofpdf.Fpdf, rows [][2]string) {
	for i, row := range rows {
		if i == 0 {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetFillColor(0x80, 0x80, 0x80)
			pdf.SetTextColor(0xF5, 0xF5, 0xF5)
		} else {
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetFillColor(0xF5, 0xF5, 0xDC)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.CellFormat(70, 9, row[0], "1", 0, "C", true, 0, "")
		pdf.CellFormat(70, 9, row[1], "1", 1, "C", true, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)
}
