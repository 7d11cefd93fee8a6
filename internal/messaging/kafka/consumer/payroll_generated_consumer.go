package consumer

import (
	"context"
	"encoding/json"

	"go-dms/internal/events"
	"go-dms/internal/payroll"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollGenerated renders a payslip for every generated payroll
// record. Decode failures are committed and skipped; transient generation
// failures are left uncommitted so the message is retried.
func ConsumePayrollGenerated(
	ctx context.Context,
	reader *kafkago.Reader,
	payrollService payroll.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_generated")
	log.Info("payroll generated consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll generated consumer stopped")
				return
			}
			log.Error("fetch payroll generated message failed", zap.Error(err))
			continue
		}

		var event events.PayrollGeneratedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll generated event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if _, err := payrollService.GeneratePayslip(ctx, event.PayrollID); err != nil {
			log.Error("generate payslip failed",
				zap.String("payroll_id", event.PayrollID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll generated message failed", zap.Error(err))
			continue
		}

		log.Info("payslip generated",
			zap.String("payroll_id", event.PayrollID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("period", event.PeriodKey),
		)
	}
}
