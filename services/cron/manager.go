package cron

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"gorm.io/gorm"
)

// Options tunes the maintenance jobs
type Options struct {
	// SessionMaxAge expires session tokens older than this. Zero keeps
	// tokens until logout or password change.
	SessionMaxAge time.Duration
	// LogRetention is how long cron_job_logs rows are kept
	LogRetention time.Duration
}

// DefaultLogRetention keeps 90 days of job history
const DefaultLogRetention = 90 * 24 * time.Hour

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron     *cron.Cron
	db       *gorm.DB
	sessions *auth.SessionStore
	opts     Options
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, sessions *auth.SessionStore, opts Options) *CronManager {
	if opts.LogRetention <= 0 {
		opts.LogRetention = DefaultLogRetention
	}

	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:     c,
		db:       db,
		sessions: sessions,
		opts:     opts,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Info("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

// Entries reports how many jobs are scheduled
func (m *CronManager) Entries() int {
	return len(m.cron.Entries())
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Hourly: expire old session tokens
	if m.opts.SessionMaxAge > 0 {
		if _, err := m.cron.AddFunc("0 0 * * * *", m.run(jobPurgeSessions, m.PurgeExpiredSessions)); err != nil {
			return err
		}
	}

	// 2. Daily at 3 AM: prune job history
	if _, err := m.cron.AddFunc("0 0 3 * * *", m.run(jobPruneCronLogs, m.PruneCronLogs)); err != nil {
		return err
	}

	log.Infof("Registered %d cron jobs", len(m.cron.Entries()))
	return nil
}

// run wraps a job so every execution is recorded in cron_job_logs
func (m *CronManager) run(jobName string, job func(ctx context.Context) (string, error)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		m.RunNow(ctx, jobName, job)
	}
}

// RunNow executes job immediately and records the outcome
func (m *CronManager) RunNow(ctx context.Context, jobName string, job func(ctx context.Context) (string, error)) error {
	entry := m.logJobStart(jobName)

	message, err := job(ctx)
	if err != nil {
		m.logJobError(entry, err)
		return err
	}
	m.logJobComplete(entry, message)
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	log.Infof("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronJobRunning,
		StartedAt: time.Now(),
	}
	if err := m.db.Create(entry).Error; err != nil {
		log.Warnf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return entry
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(entry *model.CronJobLog, message string) {
	log.Infof("[CRON] Completed job: %s - %s", entry.JobName, message)
	m.finish(entry, map[string]interface{}{
		"status":  model.CronJobCompleted,
		"message": message,
	})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", entry.JobName, err)
	m.finish(entry, map[string]interface{}{
		"status":    model.CronJobFailed,
		"error_msg": err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}
	now := time.Now()
	updates["completed_at"] = now
	updates["duration_ms"] = now.Sub(entry.StartedAt).Milliseconds()

	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		log.Warnf("[CRON] Failed to record end of %s: %v", entry.JobName, err)
	}
}
