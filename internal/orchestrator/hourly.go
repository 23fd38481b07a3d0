package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kayz/motion/internal/logger"
	"github.com/kayz/motion/internal/prompt"
)

// hourlyTimeout bounds a timer-triggered generation so a hung endpoint
// cannot pile up overlapping runs for long.
const hourlyTimeout = 10 * time.Minute

// Hourly drives GenerateAndNotify on a repeating schedule, independent
// of any user-triggered generation.
type Hourly struct {
	orch   *Orchestrator
	inputs func() prompt.Inputs
	title  string

	mu      sync.Mutex
	cron    *cron.Cron
	entryID cron.EntryID
}

// NewHourly creates the hourly trigger. inputs is called at fire time
// so the freshest instruction/context/data are used.
func NewHourly(orch *Orchestrator, inputs func() prompt.Inputs, title string) *Hourly {
	return &Hourly{orch: orch, inputs: inputs, title: title}
}

// Start begins the hourly schedule. Idempotent.
func (h *Hourly) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cron != nil {
		return nil
	}

	c := cron.New()
	id, err := c.AddFunc("@every 1h", h.fire)
	if err != nil {
		return fmt.Errorf("failed to schedule hourly generation: %w", err)
	}
	c.Start()
	h.cron = c
	h.entryID = id
	logger.Info("hourly generation scheduled")
	return nil
}

// Stop halts the schedule. Idempotent.
func (h *Hourly) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cron == nil {
		return
	}
	ctx := h.cron.Stop()
	<-ctx.Done()
	h.cron = nil
	h.entryID = 0
	logger.Info("hourly generation stopped")
}

func (h *Hourly) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), hourlyTimeout)
	defer cancel()

	if _, err := h.orch.GenerateAndNotify(ctx, h.inputs(), h.title); err != nil {
		logger.Warn("hourly generation failed: %v", err)
	}
}
