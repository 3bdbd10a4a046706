package workers

import (
	"context"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/repositories"

	"gorm.io/gorm"
)

type JobWorker struct {
	db       *gorm.DB
	jobRepo  repositories.JobRepository
	interval time.Duration
}

func NewJobWorker(db *gorm.DB, jobRepo repositories.JobRepository) *JobWorker {
	return &JobWorker{
		db:       db,
		jobRepo:  jobRepo,
		interval: 1 * time.Hour,
	}
}

// Start запускает фоновые задачи вакансий
func (w *JobWorker) Start(ctx context.Context) {
	go w.autoCloseExpired(ctx)
}

// autoCloseExpired закрывает одобренные вакансии с прошедшим дедлайном приема откликов
func (w *JobWorker) autoCloseExpired(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job worker stopped")
			return
		case <-ticker.C:
			closed, err := w.jobRepo.CloseExpired(w.db, time.Now())
			if err != nil {
				logger.WorkerLog("job_worker", "auto_close_expired", err)
			} else if closed > 0 {
				logger.Info("Auto-closed expired jobs", "worker", "job_worker", "count", closed)
			}
		}
	}
}
