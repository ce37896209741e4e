package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"MarketAnalyst/internal/collector"
	"MarketAnalyst/internal/metrics"
	"MarketAnalyst/internal/model"
	"MarketAnalyst/internal/notifier"
	"MarketAnalyst/internal/recorder"
)

const sendRetries = 3

// Sender delivers a sequence of messages.
type Sender interface {
	SendAll(ctx context.Context, messages []string, maxRetries int) error
}

// Scheduler manages the cron report task and bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender // nil disables delivery
	Recorder  recorder.Recorder
	Metrics   *metrics.Registry
	Companies []string
	Workers   int
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, rec recorder.Recorder, companies []string, workers int) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  sender,
		Recorder:  rec,
		Companies: companies,
		Workers:   workers,
		Ctx:       ctx,
	}
}

// Register schedules the report task on a six-field cron spec.
func (s *Scheduler) Register(reportCron string) error {
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunReportsNow executes the report task immediately (for RUN_ON_START).
func (s *Scheduler) RunReportsNow() {
	s.reportTask()
}

// CompanyList returns the configured companies, or every company the
// source can enumerate when none are configured.
func (s *Scheduler) CompanyList() ([]string, error) {
	if len(s.Companies) > 0 {
		return s.Companies, nil
	}
	if lister, ok := s.Collector.Source.(collector.Lister); ok {
		return lister.Companies()
	}
	return nil, nil
}

func (s *Scheduler) reportTask() {
	companies, err := s.CompanyList()
	if err != nil {
		log.Error().Err(err).Msg("list companies")
		s.trySend([]string{fmt.Sprintf("❌ Listing companies failed: %s", html.EscapeString(err.Error()))})
		return
	}
	if len(companies) == 0 {
		log.Warn().Msg("report task: no companies configured")
		return
	}

	log.Info().Int("companies", len(companies)).Msg("running report task")
	failed := 0
	for _, res := range s.Collector.CollectAll(s.Ctx, companies, s.Workers) {
		s.Metrics.ObserveReport(res.Report, res.Err, res.Duration)
		if res.Err != nil {
			failed++
			log.Error().Err(res.Err).Str("company", res.Company).Msg("collect report")
			continue
		}
		s.record(s.Ctx, res.Report)
		s.trySend(notifier.FormatReport(res.Report))
	}
	if failed > 0 {
		s.trySend([]string{fmt.Sprintf("❌ %d of %d reports failed", failed, len(companies))})
	}
	log.Info().Int("failed", failed).Msg("report task finished")
}

// RunReport collects, records and returns one company's report.
func (s *Scheduler) RunReport(ctx context.Context, company string) (*recorder.StoredReport, error) {
	start := time.Now()
	r, err := s.Collector.Collect(ctx, company)
	s.Metrics.ObserveReport(r, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &recorder.StoredReport{ID: s.record(ctx, r), Report: r}, nil
}

// record stores r, logging failures; the returned id is empty on failure.
func (s *Scheduler) record(ctx context.Context, r *model.Report) string {
	id, err := s.Recorder.RecordReport(ctx, r)
	if err != nil {
		log.Error().Err(err).Str("company", r.Company).Msg("record report")
		return ""
	}
	log.Info().Str("company", r.Company).Str("report_id", id).Msg("report recorded")
	return id
}

// HandleCommand processes a bot command and returns the replies.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) []string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	arg := strings.Join(fields[1:], " ")

	switch name {
	case "/report":
		if arg == "" {
			return []string{"Usage: /report &lt;company&gt;"}
		}
		stored, err := s.RunReport(ctx, arg)
		if err != nil {
			return []string{commandError(arg, err)}
		}
		return notifier.FormatReport(stored.Report)
	case "/latest":
		if arg == "" {
			return []string{"Usage: /latest &lt;company&gt;"}
		}
		stored, err := s.Recorder.LatestReport(ctx, arg)
		if err != nil {
			return []string{commandError(arg, err)}
		}
		return notifier.FormatReport(stored.Report)
	case "/companies":
		companies, err := s.CompanyList()
		if err != nil {
			log.Error().Err(err).Msg("list companies")
			return []string{"❌ Could not list companies."}
		}
		return []string{notifier.FormatCompanies(companies)}
	default:
		return []string{notifier.FormatHelp()}
	}
}

func commandError(company string, err error) string {
	company = html.EscapeString(company)
	switch {
	case errors.Is(err, collector.ErrUnknownCompany):
		return fmt.Sprintf("Unknown company: <b>%s</b>", company)
	case errors.Is(err, recorder.ErrNotFound):
		return fmt.Sprintf("No stored report for <b>%s</b>.", company)
	default:
		log.Error().Err(err).Str("company", company).Msg("command failed")
		return fmt.Sprintf("❌ Report for <b>%s</b> failed.", company)
	}
}

func (s *Scheduler) trySend(messages []string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendAll(s.Ctx, messages, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
