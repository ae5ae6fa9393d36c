package jobs

import (
	"log"
	"time"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/services"
	"github.com/md2563430-netizen/KABS-WEBSITE/internal/storage"
)

// ScheduledCampaignJob dispatches paid campaigns whose scheduled time
// has arrived.
type ScheduledCampaignJob struct {
	store     storage.Store
	sender    *services.SendService
	wizard    *services.WizardService
	interval  time.Duration
	isRunning bool
	stop      chan struct{}
}

// NewScheduledCampaignJob creates a new scheduled campaign job
func NewScheduledCampaignJob(store storage.Store, sender *services.SendService, wizard *services.WizardService) *ScheduledCampaignJob {
	return &ScheduledCampaignJob{
		store:    store,
		sender:   sender,
		wizard:   wizard,
		interval: time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start begins the scheduler loop
func (j *ScheduledCampaignJob) Start() {
	if j.isRunning {
		log.Println("Scheduled campaign job already running")
		return
	}

	j.isRunning = true
	log.Println("Starting scheduled campaign job...")
	go j.run()
}

// Stop halts the scheduler loop
func (j *ScheduledCampaignJob) Stop() {
	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping scheduled campaign job...")
}

func (j *ScheduledCampaignJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stop:
			return
		case now := <-ticker.C:
			j.dispatchDue(now)
		}
	}
}

// dispatchDue sends every paid draft whose schedule has passed, then
// clears the schedule so the draft is not picked up again.
func (j *ScheduledCampaignJob) dispatchDue(now time.Time) {
	drafts, err := j.store.GetDueScheduledDrafts(now)
	if err != nil {
		log.Printf("Failed to fetch due campaigns: %v", err)
		return
	}

	for _, draft := range drafts {
		report, err := j.sender.SendCampaign(draft, "")
		if err != nil {
			log.Printf("Scheduled dispatch failed for %q: %v", draft.UseCase, err)
			continue
		}

		if err := j.wizard.MarkDispatched(draft.UseCase); err != nil {
			log.Printf("Failed to clear schedule for %q: %v", draft.UseCase, err)
		}
		log.Printf("📤 Scheduled campaign %q sent: %d ok, %d failed", draft.CampaignName, report.Sent, report.Failed)
	}
}
