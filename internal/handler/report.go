package handler

import (
	"errors"
	"net/http"
	"path/filepath"

	"fittrack/internal/middleware"
	"fittrack/internal/report"
	"fittrack/internal/util"

	"github.com/gin-gonic/gin"
)

// ReportHandler PDF 报告生成/下载
type ReportHandler struct {
	Generator *report.Generator
}

func NewReportHandler(gen *report.Generator) *ReportHandler {
	return &ReportHandler{Generator: gen}
}

// Capability 前端先查这个再决定是否展示"生成 PDF"按钮
func (h *ReportHandler) Capability(c *gin.Context) {
	util.Success(c, util.Response{
		"pdf_available": h.Generator.Available(),
	})
}

// GeneratePDF 生成本周 PDF 报告并返回文件
func (h *ReportHandler) GeneratePDF(c *gin.Context) {
	username := middleware.CurrentUser(c)

	path, err := h.Generator.WeeklyReport(username, "")
	if err != nil {
		switch {
		case errors.Is(err, report.ErrUnavailable):
			util.Error(c, http.StatusNotImplemented, util.CodeServerErr, "PDF 渲染器未启用")
		case errors.Is(err, report.ErrNoData):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "本周没有训练记录")
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "生成报告失败")
		}
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+filepath.Base(path)+"\"")
	c.File(path)
}
