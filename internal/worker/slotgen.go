// Package worker runs the scheduled slot generation sweep.
package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/slayer-yash/medical-appointment-booking-system/internal/service"
)

// SlotGenerator keeps the rolling slot window populated for every doctor.
// One sweep runs at startup so a fresh deployment has slots immediately;
// the cron schedule keeps the window rolling afterwards.
type SlotGenerator struct {
	slots *service.SlotService
	cron  *cron.Cron
	log   *zap.Logger
}

func NewSlotGenerator(slots *service.SlotService, log *zap.Logger) *SlotGenerator {
	return &SlotGenerator{
		slots: slots,
		cron:  cron.New(),
		log:   log,
	}
}

func (g *SlotGenerator) Start(spec string) error {
	go g.sweep()

	_, err := g.cron.AddFunc(spec, g.sweep)
	if err != nil {
		return err
	}
	g.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (g *SlotGenerator) Stop() {
	<-g.cron.Stop().Done()
}

func (g *SlotGenerator) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := g.slots.GenerateForAllDoctors(ctx); err != nil {
		g.log.Error("slot generation sweep failed", zap.Error(err))
	}
}
