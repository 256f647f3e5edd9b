package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilchouksey/admissions-api/model"
)

const (
	jobPurgeSessions = "purge_sessions"
	jobPruneCronLogs = "prune_cron_logs"
)

// PurgeExpiredSessions deletes session tokens older than SessionMaxAge.
// Affected users have to log in again.
func (m *CronManager) PurgeExpiredSessions(ctx context.Context) (string, error) {
	if m.opts.SessionMaxAge <= 0 {
		return "Session expiry disabled", nil
	}

	cutoff := time.Now().Add(-m.opts.SessionMaxAge)
	purged, err := m.sessions.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return "", fmt.Errorf("failed to purge sessions: %w", err)
	}
	return fmt.Sprintf("Purged %d sessions issued before %s", purged, cutoff.Format(time.RFC3339)), nil
}

// PruneCronLogs removes job history older than LogRetention
func (m *CronManager) PruneCronLogs(ctx context.Context) (string, error) {
	cutoff := time.Now().Add(-m.opts.LogRetention)
	result := m.db.WithContext(ctx).
		Where("started_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		return "", fmt.Errorf("failed to prune cron logs: %w", result.Error)
	}
	return fmt.Sprintf("Cleaned %d old cron logs", result.RowsAffected), nil
}
