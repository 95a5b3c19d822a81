// Package alert builds the high-risk PO alert payload handed to an external
// notification sender. Delivery itself is out of scope; the default Notifier
// only logs.
package alert

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/po-insight/internal/export"
	"github.com/sells-group/po-insight/internal/po"
)

// Alert is the payload for one batch of predicted-delayed POs.
type Alert struct {
	SourceFile string
	Threshold  float64
	Rows       []po.PredictionRow
	Attachment []byte // XLSX workbook of the alert rows
}

// Notifier delivers an alert. Implementations are external collaborators
// (email, chat, webhook); they never affect scoring correctness.
type Notifier interface {
	Send(ctx context.Context, a Alert) error
}

// Build assembles an alert with its XLSX attachment. Returns nil when there
// are no rows to alert on.
func Build(sourceFile string, threshold float64, rows []po.PredictionRow) (*Alert, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	attachment, err := export.PredictionsXLSX(rows)
	if err != nil {
		return nil, eris.Wrap(err, "alert: build attachment")
	}
	return &Alert{
		SourceFile: sourceFile,
		Threshold:  threshold,
		Rows:       rows,
		Attachment: attachment,
	}, nil
}

// LogNotifier is the default Notifier: it records the alert and delivers
// nothing.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, a Alert) error {
	zap.L().Warn("alert: high-risk delayed POs detected",
		zap.String("source", a.SourceFile),
		zap.Float64("threshold", a.Threshold),
		zap.Int("rows", len(a.Rows)),
	)
	return nil
}
