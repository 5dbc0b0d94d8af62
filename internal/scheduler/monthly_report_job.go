package scheduler

import (
	"time"

	"danakita/internal/service"
)

// MonthlyReportJob generates the previous calendar month's platform-wide
// report. Reports are insert-only snapshots, so a rerun after failure (or a
// manual regeneration) is always safe.
type MonthlyReportJob struct {
	reports *service.ReportService
}

func NewMonthlyReportJob(reports *service.ReportService) *MonthlyReportJob {
	return &MonthlyReportJob{reports: reports}
}

func (j *MonthlyReportJob) Name() string { return "monthly-financial-report" }

func (j *MonthlyReportJob) Run() error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
	end := start.AddDate(0, 1, 0)
	_, err := j.reports.GenerateReport(start, end, nil)
	return err
}
