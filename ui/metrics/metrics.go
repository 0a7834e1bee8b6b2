// Package metrics counts what happens in a game session.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of a session.
// A nil *Metrics records nothing.
type Metrics struct {
	messagesReceived  *prometheus.CounterVec
	segmentsApplied   prometheus.Counter
	repairsApplied    prometheus.Counter
	reconnects        prometheus.Counter
	timerExpirations  prometheus.Counter
	voiceLinkFailures prometheus.Counter
	voiceLinks        prometheus.Gauge
}

const namespace = "trop_dur"

// New creates the collectors and registers them.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := Metrics{
		messagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_received_total",
				Help:      "Total messages received from the server, by event",
			},
			[]string{"event"},
		),
		segmentsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_segments_applied_total",
			Help:      "Total live stroke segments drawn on the mirror",
		}),
		repairsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stroke_repairs_applied_total",
			Help:      "Total stroke history pulls that redrew the mirror",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "socket_reconnects_total",
			Help:      "Total times the socket connected after losing its connection",
		}),
		timerExpirations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timer_expirations_total",
			Help:      "Total round timers that reached zero",
		}),
		voiceLinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "voice_link_failures_total",
			Help:      "Total voice links that failed to negotiate or connect",
		}),
		voiceLinks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "voice_links",
			Help:      "Number of open voice links",
		}),
	}
	collectors := []prometheus.Collector{
		m.messagesReceived,
		m.segmentsApplied,
		m.repairsApplied,
		m.reconnects,
		m.timerExpirations,
		m.voiceLinkFailures,
		m.voiceLinks,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// MessageReceived counts a message from the server.
func (m *Metrics) MessageReceived(event string) {
	if m == nil {
		return
	}
	m.messagesReceived.WithLabelValues(event).Inc()
}

// SegmentApplied counts a live segment drawn on the mirror.
func (m *Metrics) SegmentApplied() {
	if m == nil {
		return
	}
	m.segmentsApplied.Inc()
}

// RepairApplied counts a stroke history that redrew the mirror.
func (m *Metrics) RepairApplied() {
	if m == nil {
		return
	}
	m.repairsApplied.Inc()
}

// Reconnected counts a connection made after the first one.
func (m *Metrics) Reconnected() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

// TimerExpired counts a round timer reaching zero.
func (m *Metrics) TimerExpired() {
	if m == nil {
		return
	}
	m.timerExpirations.Inc()
}

// VoiceLinkFailed counts a failed voice link.
func (m *Metrics) VoiceLinkFailed() {
	if m == nil {
		return
	}
	m.voiceLinkFailures.Inc()
}

// SetVoiceLinks records the number of open voice links.
func (m *Metrics) SetVoiceLinks(n int) {
	if m == nil {
		return
	}
	m.voiceLinks.Set(float64(n))
}
