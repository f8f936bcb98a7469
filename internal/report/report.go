// Package report renders the summary statistics computed by the store into
// documents. PDF rendering is optional: build with the "pdf" tag to compile
// the renderer in, otherwise Available reports false and callers degrade
// gracefully instead of failing at call time.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fittrack/internal/store"
)

// ErrUnavailable PDF 渲染器没有编译进来
var ErrUnavailable = errors.New("pdf renderer not available")

// ErrNoData 窗口内没有训练记录，无法生成报告
var ErrNoData = errors.New("no workouts in report window")

// Generator 文档生成器
type Generator struct {
	Store *store.Store
	Dir   string // 默认输出目录
}

func NewGenerator(st *store.Store, dir string) *Generator {
	return &Generator{Store: st, Dir: dir}
}

// Available reports whether the PDF renderer was compiled in.
func (g *Generator) Available() bool {
	return pdfAvailable
}

// WeeklyReport generates the weekly PDF report for the user. When outputPath
// is empty the file goes to the generator's directory with a dated name.
func (g *Generator) WeeklyReport(username, outputPath string) (string, error) {
	if !pdfAvailable {
		return "", ErrUnavailable
	}

	stats := g.Store.Summarize(username, "weekly")
	if stats == nil {
		return "", ErrNoData
	}

	if outputPath == "" {
		if err := os.MkdirAll(g.Dir, 0o755); err != nil {
			return "", fmt.Errorf("create reports dir: %w", err)
		}
		name := fmt.Sprintf("weekly_report_%s_%s.pdf", username, time.Now().Format("20060102"))
		outputPath = filepath.Join(g.Dir, name)
	}

	if err := renderWeeklyPDF(outputPath, username, stats); err != nil {
		return "", err
	}
	return outputPath, nil
}
