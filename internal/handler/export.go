package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"fittrack/internal/middleware"
	"fittrack/internal/models"
	"fittrack/internal/store"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportWindowDays 导出最近一年的训练数据
const exportWindowDays = 365

// ExportHandler 表格导出（CSV / XLSX）
type ExportHandler struct {
	Store *store.Store
}

func NewExportHandler(st *store.Store) *ExportHandler {
	return &ExportHandler{Store: st}
}

// exportColumns 固定列 + 所有记录里出现过的自定义字段并集
func exportColumns(workouts []models.Workout) []string {
	columns := []string{"id", "date", "type", "duration", "distance", "calories", "intensity", "notes"}

	seen := map[string]bool{}
	for _, w := range workouts {
		for k := range w.Extra {
			seen[k] = true
		}
	}
	extras := make([]string, 0, len(seen))
	for k := range seen {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	return append(columns, extras...)
}

func workoutRow(w *models.Workout, columns []string) []string {
	row := []string{
		strconv.Itoa(w.ID),
		w.Date.Format("2006-01-02 15:04"),
		w.Type,
		strconv.Itoa(w.Duration),
		strconv.FormatFloat(w.Distance, 'f', 2, 64),
		strconv.Itoa(w.Calories),
		w.Intensity,
		w.Notes,
	}
	for _, col := range columns[8:] {
		row = append(row, w.Extra[col])
	}
	return row
}

// ExportCSV 导出训练记录为 CSV。没有数据就不产出文件。
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	username := middleware.CurrentUser(c)

	workouts := h.Store.Workouts(username, exportWindowDays)
	if len(workouts) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "没有可导出的数据")
		return
	}
	columns := exportColumns(workouts)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_data_%s.csv\"",
		username, time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer.Write(columns)
	for i := range workouts {
		writer.Write(workoutRow(&workouts[i], columns))
	}
}

// ExportXLSX 导出训练记录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	username := middleware.CurrentUser(c)

	workouts := h.Store.Workouts(username, exportWindowDays)
	if len(workouts) == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "没有可导出的数据")
		return
	}
	columns := exportColumns(workouts)

	f := excelize.NewFile()
	sheetName := "Workouts"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "创建工作表失败")
		return
	}
	f.SetActiveSheet(index)

	// 表头
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	// 数据行
	for idx := range workouts {
		row := workoutRow(&workouts[idx], columns)
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, idx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	// 日期和备注列宽一点
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "H", "H", 30)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_data_%s.xlsx\"",
		username, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "导出失败")
	}
}
