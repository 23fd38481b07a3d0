// Package notify delivers OS-native notifications: one-shot sends and
// an hourly recurring notification carrying the latest response.
package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kayz/motion/internal/logger"
)

// recurringIdentifier is the fixed identity of the hourly notification;
// rescheduling replaces any prior one under it.
const recurringIdentifier = "motion.hourly.response.notification"

// immediateDelay is how long a one-shot notification waits before firing.
const immediateDelay = time.Second

// DefaultTitle is the notification title when callers pass none.
const DefaultTitle = "Motion"

// Runner executes a notification delivery command. Injectable for tests.
type Runner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w - %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Service owns the recurring schedule and delivers notifications.
type Service struct {
	title  string
	runner Runner
	cron   *cron.Cron

	mu      sync.Mutex
	entryID cron.EntryID
	text    string
}

// NewService creates a notification service with the given default title.
func NewService(title string) *Service {
	if title == "" {
		title = DefaultTitle
	}
	s := &Service{
		title:  title,
		runner: execRunner,
		cron:   cron.New(),
	}
	s.cron.Start()
	return s
}

// SetRunner replaces the delivery command runner. Test hook.
func (s *Service) SetRunner(r Runner) {
	s.runner = r
}

// EnsureAuthorizedAndScheduleRecurring verifies a notifier is available
// on this system and installs the hourly recurring notification with
// text. Blank text cancels nothing and schedules nothing.
func (s *Service) EnsureAuthorizedAndScheduleRecurring(text string) error {
	if err := s.authorize(); err != nil {
		return err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	s.ScheduleRecurring(trimmed)
	return nil
}

// ScheduleRecurring installs an hourly repeating notification carrying
// text, replacing any prior one under the fixed identifier.
func (s *Service) ScheduleRecurring(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}

	s.text = text
	id, err := s.cron.AddFunc("@every 1h", func() {
		s.mu.Lock()
		body := s.text
		s.mu.Unlock()
		s.deliver(body, s.title)
	})
	if err != nil {
		logger.Error("failed to schedule recurring notification: %v", err)
		return
	}
	s.entryID = id
	logger.Debug("recurring notification scheduled: %s", recurringIdentifier)
}

// CancelRecurring removes the pending recurring notification.
func (s *Service) CancelRecurring() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
		s.text = ""
		logger.Debug("recurring notification cancelled: %s", recurringIdentifier)
	}
}

// RecurringScheduled reports whether a recurring notification is pending.
func (s *Service) RecurringScheduled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryID != 0
}

// SendImmediate fires a one-shot notification shortly after the call,
// under a fresh identifier so repeated sends never replace each other.
// It returns the identifier.
func (s *Service) SendImmediate(text, title string) string {
	if title == "" {
		title = s.title
	}
	id := uuid.New().String()
	time.AfterFunc(immediateDelay, func() {
		s.deliver(text, title)
	})
	logger.Debug("immediate notification queued: %s", id)
	return id
}

// Stop halts the recurring schedule.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// authorize stands in for the OS permission request: it checks that a
// delivery mechanism exists on this system.
func (s *Service) authorize() error {
	switch runtime.GOOS {
	case "darwin":
		_, err := exec.LookPath("osascript")
		return err
	case "linux":
		_, err := exec.LookPath("notify-send")
		return err
	case "windows":
		return nil
	default:
		return fmt.Errorf("notifications not supported on %s", runtime.GOOS)
	}
}

// deliver sends one notification via the platform mechanism. Failures
// are logged, never fatal.
func (s *Service) deliver(message, title string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "default"`,
			escapeAppleScript(message), escapeAppleScript(title))
		err = s.runner(ctx, "osascript", "-e", script)
	case "linux":
		err = s.runner(ctx, "notify-send", title, message)
	case "windows":
		err = s.runner(ctx, "msg", "*", fmt.Sprintf("%s: %s", title, message))
	default:
		err = fmt.Errorf("notifications not supported on %s", runtime.GOOS)
	}
	if err != nil {
		logger.Warn("failed to send notification: %v", err)
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
