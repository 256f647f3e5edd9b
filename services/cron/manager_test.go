package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sahilchouksey/admissions-api/internal/testutil"
	"github.com/sahilchouksey/admissions-api/model"
	"github.com/sahilchouksey/admissions-api/utils/auth"
	"gorm.io/gorm"
)

func newManager(t *testing.T, opts Options) (*CronManager, *gorm.DB, *auth.SessionStore) {
	t.Helper()
	db := testutil.NewTestDB(t)
	sessions := auth.NewSessionStore(db, testutil.NewTokenManager(t))
	return NewCronManager(db, sessions, opts), db, sessions
}

func TestRegisterJobs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want int
	}{
		{"session expiry disabled", Options{}, 1},
		{"session expiry enabled", Options{SessionMaxAge: 24 * time.Hour}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newManager(t, tt.opts)
			if err := m.registerJobs(); err != nil {
				t.Fatalf("registerJobs() error = %v", err)
			}
			if got := m.Entries(); got != tt.want {
				t.Errorf("Entries() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	m, db, sessions := newManager(t, Options{SessionMaxAge: time.Hour})
	ctx := context.Background()

	stale := testutil.CreateUser(t, db, "stale", "stale@example.com", "password123", false)
	fresh := testutil.CreateUser(t, db, "fresh", "fresh@example.com", "password123", false)
	old, err := sessions.Issue(ctx, stale.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	db.Model(&model.SessionToken{}).Where("id = ?", old.ID).UpdateColumn("created_at", time.Now().Add(-2*time.Hour))
	if _, err := sessions.Issue(ctx, fresh.ID); err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if err := m.RunNow(ctx, jobPurgeSessions, m.PurgeExpiredSessions); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}

	if _, err := sessions.Lookup(ctx, old.Key); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Errorf("stale token lookup = %v, want ErrSessionNotFound", err)
	}
	if n, _ := sessions.Count(ctx); n != 1 {
		t.Errorf("remaining sessions = %d, want 1", n)
	}

	var entry model.CronJobLog
	if err := db.Where("job_name = ?", jobPurgeSessions).First(&entry).Error; err != nil {
		t.Fatalf("job log not written: %v", err)
	}
	if entry.Status != model.CronJobCompleted || entry.CompletedAt == nil {
		t.Errorf("job log = %+v", entry)
	}
}

func TestPurgeExpiredSessionsDisabled(t *testing.T) {
	m, db, sessions := newManager(t, Options{})
	ctx := context.Background()

	user := testutil.CreateUser(t, db, "u", "u@example.com", "password123", false)
	token, _ := sessions.Issue(ctx, user.ID)
	db.Model(&model.SessionToken{}).Where("id = ?", token.ID).UpdateColumn("created_at", time.Now().Add(-1000*time.Hour))

	if _, err := m.PurgeExpiredSessions(ctx); err != nil {
		t.Fatalf("PurgeExpiredSessions() error = %v", err)
	}
	if n, _ := sessions.Count(ctx); n != 1 {
		t.Errorf("sessions = %d, want 1", n)
	}
}

func TestPruneCronLogs(t *testing.T) {
	m, db, _ := newManager(t, Options{LogRetention: 24 * time.Hour})
	ctx := context.Background()

	db.Create(&model.CronJobLog{JobName: "old", Status: model.CronJobCompleted, StartedAt: time.Now().Add(-48 * time.Hour)})
	db.Create(&model.CronJobLog{JobName: "recent", Status: model.CronJobCompleted, StartedAt: time.Now().Add(-time.Hour)})

	if _, err := m.PruneCronLogs(ctx); err != nil {
		t.Fatalf("PruneCronLogs() error = %v", err)
	}

	var names []string
	db.Model(&model.CronJobLog{}).Order("job_name").Pluck("job_name", &names)
	if len(names) != 1 || names[0] != "recent" {
		t.Errorf("remaining logs = %v, want [recent]", names)
	}
}

func TestRunNowRecordsFailure(t *testing.T) {
	m, db, _ := newManager(t, Options{})
	boom := errors.New("boom")

	err := m.RunNow(context.Background(), "failing", func(context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunNow() error = %v, want boom", err)
	}

	var entry model.CronJobLog
	db.Where("job_name = ?", "failing").First(&entry)
	if entry.Status != model.CronJobFailed || entry.ErrorMsg != "boom" {
		t.Errorf("job log = %+v", entry)
	}
}
