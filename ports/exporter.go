package ports

import (
	"context"

	"vegtrend/domain/report"
)

// ReportExporter hands a finished run off to the reporting layer in tabular
// form. The core never renders results itself.
type ReportExporter interface {
	Export(ctx context.Context, run *report.RunResult) error
}

// RunRepository persists run manifests and their per-zone records.
type RunRepository interface {
	SaveRun(ctx context.Context, run *report.RunResult) error
}
