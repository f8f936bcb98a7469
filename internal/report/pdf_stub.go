//go:build !pdf

package report

import "fittrack/internal/store"

const pdfAvailable = false

func renderWeeklyPDF(path, username string, stats *store.ReportStats) error {
	return ErrUnavailable
}
