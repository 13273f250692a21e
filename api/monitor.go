/*
monitor.go - Periodic quota usage monitor

PURPOSE:
  Periodically computes every worker's statistics for the current quota
  period and flags workers that are over quota (a quota lowered after
  shifts were booked) or close to it. Booking never lets a worker go over,
  so an OVER line always means the quota changed underneath the shifts.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - Workers without a quota for the period are skipped
  - The last report is kept in memory for GET /api/quota-report
  - OVER workers are logged at warn level

CONFIGURATION:
  - CheckInterval: How often to check (QUOTA_CHECK_INTERVAL, default 1h)
  - NearThreshold: Completion rate from which a worker is NEAR (default 90)

USAGE:
  monitor := NewQuotaMonitor(svc, logger)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - scheduling/service.go: ComputePeriodStats
  - handlers.go: stats endpoints
*/
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/warp/shift-engine/generic"
	"github.com/warp/shift-engine/scheduling"
)

// Quota usage levels reported by the monitor.
const (
	UsageOver = "OVER"
	UsageNear = "NEAR"
)

// QuotaUsage is one flagged worker in a report.
type QuotaUsage struct {
	WorkerID       string  `json:"workerId"`
	WorkerName     string  `json:"workerName"`
	Level          string  `json:"level"`
	MaxHours       float64 `json:"maxHours"`
	WorkedHours    float64 `json:"workedHours"`
	RemainingHours float64 `json:"remainingHours"`
	CompletionRate float64 `json:"completionRate"`
}

// QuotaReport is the result of one monitor run.
type QuotaReport struct {
	CheckedAt     string       `json:"checkedAt"`
	Period        *PeriodDTO   `json:"period"`
	WorkersSeen   int          `json:"workersSeen"`
	WithoutQuota  int          `json:"withoutQuota"`
	Flagged       []QuotaUsage `json:"flagged"`
	NextCheckAt   string       `json:"nextCheckAt,omitempty"`
	FailedWorkers []string     `json:"failedWorkers,omitempty"`
}

// QuotaMonitor periodically checks quota usage in the current period.
type QuotaMonitor struct {
	Service       *scheduling.Service
	CheckInterval time.Duration
	NearThreshold decimal.Decimal

	log *logrus.Entry
	now func() time.Time

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex

	reportMu sync.RWMutex
	last     *QuotaReport
}

// NewQuotaMonitor creates a monitor with an hourly interval.
func NewQuotaMonitor(svc *scheduling.Service, logger *logrus.Logger) *QuotaMonitor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QuotaMonitor{
		Service:       svc,
		CheckInterval: time.Hour,
		NearThreshold: decimal.NewFromInt(90),
		log:           logger.WithField("component", "quota-monitor"),
		now:           time.Now,
	}
}

// Start begins periodic checks. A non-positive interval disables them;
// on-demand runs still work.
func (m *QuotaMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CheckInterval <= 0 {
		m.log.Info("Disabled, not starting")
		return
	}
	if m.ticker != nil {
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.stop = make(chan struct{})
	m.wg.Add(1)
	go m.run(m.ticker, m.stop)

	m.log.WithField("interval", m.CheckInterval).Info("Started")
}

// Stop halts periodic checks and waits for a running check to finish.
func (m *QuotaMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker == nil {
		return
	}
	m.ticker.Stop()
	close(m.stop)
	m.wg.Wait()
	m.ticker = nil
	m.log.Info("Stopped")
}

func (m *QuotaMonitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	// Run immediately on start
	m.RunNow(context.Background())

	for {
		select {
		case <-ticker.C:
			m.RunNow(context.Background())
		case <-stop:
			return
		}
	}
}

// RunNow performs a check, stores the report and returns it.
func (m *QuotaMonitor) RunNow(ctx context.Context) QuotaReport {
	now := m.now()
	report := QuotaReport{
		CheckedAt: formatTimestamp(now),
		Flagged:   []QuotaUsage{},
	}
	if m.CheckInterval > 0 {
		report.NextCheckAt = formatTimestamp(now.Add(m.CheckInterval))
	}

	period, ok := m.Service.Scheme().PeriodFor(now)
	if !ok {
		m.log.WithField("date", generic.DayKey(now)).Debug("No quota period today")
		m.store(report)
		return report
	}
	p := toPeriodDTO(period)
	report.Period = &p

	workers, err := m.Service.ListWorkers(ctx)
	if err != nil {
		m.log.WithError(err).Error("Failed to list workers")
		m.store(report)
		return report
	}

	for _, wk := range workers {
		report.WorkersSeen++
		stats, err := m.Service.ComputePeriodStats(ctx, wk.ID, period.Start, period.End)
		if err != nil {
			m.log.WithError(err).WithField("worker_id", wk.ID).Error("Failed to compute stats")
			report.FailedWorkers = append(report.FailedWorkers, wk.ID)
			continue
		}
		if !stats.MaxHours.IsPositive() {
			report.WithoutQuota++
			continue
		}

		level := m.classify(stats)
		if level == "" {
			continue
		}
		usage := QuotaUsage{
			WorkerID:       wk.ID,
			WorkerName:     wk.FullName(),
			Level:          level,
			MaxHours:       generic.Float(stats.MaxHours),
			WorkedHours:    generic.Float(stats.WorkedHours),
			RemainingHours: generic.Float(stats.RemainingHours),
			CompletionRate: generic.Float(stats.CompletionRate.Round(2)),
		}
		report.Flagged = append(report.Flagged, usage)

		if level == UsageOver {
			m.log.WithFields(logrus.Fields{
				"worker_id":    wk.ID,
				"worked_hours": stats.WorkedHours.String(),
				"max_hours":    stats.MaxHours.String(),
			}).Warn("Worker over quota")
		}
	}

	m.log.WithFields(logrus.Fields{
		"period":  period.Label,
		"workers": report.WorkersSeen,
		"flagged": len(report.Flagged),
	}).Info("Quota check completed")

	m.store(report)
	return report
}

func (m *QuotaMonitor) classify(stats scheduling.PeriodStats) string {
	switch {
	case stats.Exceeded():
		return UsageOver
	case stats.CompletionRate.GreaterThanOrEqual(m.NearThreshold):
		return UsageNear
	default:
		return ""
	}
}

func (m *QuotaMonitor) store(r QuotaReport) {
	m.reportMu.Lock()
	m.last = &r
	m.reportMu.Unlock()
}

// LastReport returns the most recent report, if any.
func (m *QuotaMonitor) LastReport() (QuotaReport, bool) {
	m.reportMu.RLock()
	defer m.reportMu.RUnlock()
	if m.last == nil {
		return QuotaReport{}, false
	}
	return *m.last, true
}

// =============================================================================
// HTTP
// =============================================================================

// GetReport serves the last report, running a check first if none exists.
func (m *QuotaMonitor) GetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := m.LastReport()
	if !ok {
		report = m.RunNow(r.Context())
	}
	writeJSON(w, http.StatusOK, report)
}

// RunReport runs a check immediately.
func (m *QuotaMonitor) RunReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.RunNow(r.Context()))
}
