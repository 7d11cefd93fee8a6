package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-dms/internal/adjustment"
	"go-dms/internal/attendance"
	"go-dms/internal/employee"
	"go-dms/internal/events"
	"go-dms/internal/messaging/kafka"
	"go-dms/internal/messaging/kafka/consumer"
	"go-dms/internal/payroll"
	"go-dms/internal/shared/connection"
	"go-dms/internal/shared/counter"
	"go-dms/internal/shared/filestore"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer renders payslips for payroll records announced on Kafka.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	commissions := adjustment.DefaultCommissionTable()
	if path := os.Getenv("COMMISSION_TABLE_PATH"); path != "" {
		commissions, err = adjustment.LoadCommissionTable(path)
		if err != nil {
			return err
		}
	}

	payslipDir := os.Getenv("PAYSLIP_DIR")
	if payslipDir == "" {
		payslipDir = "payslips"
	}
	payslipStore, err := filestore.NewLocalStore(payslipDir)
	if err != nil {
		return err
	}

	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	attendanceService := attendance.NewService(sqlDB, attendance.NewRepository(gormDB))
	adjustmentService := adjustment.NewService(sqlDB, adjustment.NewRepository(gormDB), commissions)
	employeeService := employee.NewService(sqlDB, employee.NewRepository(gormDB), counterRepo, nil)
	payrollService := payroll.NewService(
		sqlDB,
		payroll.NewRepository(gormDB),
		counterRepo,
		outboxRepo,
		attendanceService,
		employeeService,
		adjustmentService,
		payslipStore,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollGeneratedTopic,
		GroupID:        "go-dms-payslip",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollGenerated(ctx, reader, payrollService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
