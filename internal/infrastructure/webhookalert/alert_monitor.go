package webhookalert

import (
	"time"

	"freightflow/internal/application/dto"
)

const (
	alertSignalFailedCount   = "failed_count"
	alertSignalPendingCount  = "pending_count"
	alertSignalOldestPending = "oldest_pending_age_seconds"
	defaultAlertCooldown     = 300 * time.Second
)

const (
	alertStateTriggered = "triggered"
	alertStateOngoing   = "ongoing"
	alertStateResolved  = "resolved"
)

// AlertConfig thresholds of zero disable the matching signal.
type AlertConfig struct {
	Enabled               bool
	Cooldown              time.Duration
	FailedCountThreshold  int64
	PendingCountThreshold int64
	OldestPendingMaxAge   time.Duration
}

func (c AlertConfig) hasSignals() bool {
	return c.FailedCountThreshold > 0 || c.PendingCountThreshold > 0 || c.OldestPendingMaxAge > 0
}

type alertMonitor struct {
	cfg    AlertConfig
	states map[string]alertSignalState
}

type alertSignalState struct {
	active         bool
	triggeredAt    time.Time
	lastNotifiedAt time.Time
}

type alertEvent struct {
	State     string
	Signal    string
	Current   int64
	Threshold int64
	Cooldown  time.Duration
}

func newAlertMonitor(cfg AlertConfig) *alertMonitor {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultAlertCooldown
	}
	return &alertMonitor{
		cfg:    cfg,
		states: map[string]alertSignalState{},
	}
}

func (m *alertMonitor) enabled() bool {
	return m != nil && m.cfg.Enabled && m.cfg.hasSignals()
}

func (m *alertMonitor) evaluate(now time.Time, overview dto.WebhookEventOverview) []alertEvent {
	if !m.enabled() {
		return nil
	}

	events := []alertEvent{}
	if m.cfg.FailedCountThreshold > 0 {
		events = append(events, m.evaluateSignal(
			now,
			alertSignalFailedCount,
			overview.FailedCount,
			m.cfg.FailedCountThreshold,
		)...)
	}
	if m.cfg.PendingCountThreshold > 0 {
		backlog := overview.PendingCount + overview.RetryingCount
		events = append(events, m.evaluateSignal(
			now,
			alertSignalPendingCount,
			backlog,
			m.cfg.PendingCountThreshold,
		)...)
	}
	if m.cfg.OldestPendingMaxAge > 0 {
		oldestAge := int64(0)
		if overview.OldestPendingCreatedAt != nil {
			oldestAge = int64(now.Sub(*overview.OldestPendingCreatedAt) / time.Second)
		}
		events = append(events, m.evaluateSignal(
			now,
			alertSignalOldestPending,
			oldestAge,
			int64(m.cfg.OldestPendingMaxAge/time.Second),
		)...)
	}

	return events
}

func (m *alertMonitor) evaluateSignal(now time.Time, signal string, current, threshold int64) []alertEvent {
	state := m.states[signal]
	event := alertEvent{
		Signal:    signal,
		Current:   current,
		Threshold: threshold,
		Cooldown:  m.cfg.Cooldown,
	}

	if current >= threshold {
		if !state.active {
			m.states[signal] = alertSignalState{active: true, triggeredAt: now, lastNotifiedAt: now}
			event.State = alertStateTriggered
			return []alertEvent{event}
		}

		if now.Sub(state.lastNotifiedAt) < m.cfg.Cooldown {
			return nil
		}
		state.lastNotifiedAt = now
		m.states[signal] = state
		event.State = alertStateOngoing
		return []alertEvent{event}
	}

	if state.active {
		delete(m.states, signal)
		event.State = alertStateResolved
		return []alertEvent{event}
	}

	return nil
}
