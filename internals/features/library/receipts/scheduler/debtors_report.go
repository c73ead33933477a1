package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	receiptModel "library_backend/internals/features/library/receipts/model"
)

type DebtorsLister interface {
	Debtors(ctx context.Context) ([]receiptModel.ReceivingBookModel, error)
	DebtorsDays() int
}

// RunDebtorsReport logs how many receipts are overdue and how many of those are
// still out. It returns the two counts.
func RunDebtorsReport(ctx context.Context, svc DebtorsLister) (total, outstanding int, err error) {
	rows, err := svc.Debtors(ctx)
	if err != nil {
		log.Printf("[DEBTORS-REPORT] error: %v", err)
		return 0, 0, err
	}
	for i := range rows {
		if rows[i].IsOutstanding() {
			outstanding++
		}
	}
	log.Printf("[DEBTORS-REPORT] held over %d days: total=%d still_out=%d", svc.DebtorsDays(), len(rows), outstanding)
	return len(rows), outstanding, nil
}

// StartDebtorsReportScheduler registers the report on a standard 5-field cron schedule.
// An empty schedule disables it and returns nil.
func StartDebtorsReportScheduler(schedule string, svc DebtorsLister) (*cron.Cron, error) {
	if schedule == "" {
		log.Println("[DEBTORS-REPORT] disabled")
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _, _ = RunDebtorsReport(ctx, svc)
	}); err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("[DEBTORS-REPORT] started schedule=%q", schedule)
	return c, nil
}
