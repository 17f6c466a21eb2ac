// Package metrics provides Prometheus instrumentation for the relay.
//
// Metrics are opt-in: until InitRegistry is called, all constructors
// return nil and instrumented code paths carry zero overhead. Callers
// hold possibly-nil metric sets and use their nil-safe methods.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates the process-wide metrics registry with the
// standard Go and process collectors. Idempotent.
func InitRegistry() {
	mu.Lock()
	defer mu.Unlock()

	if registry != nil {
		return
	}
	registry = prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the metrics registry, or nil when disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

// TransferMetrics instruments the transfer state machine.
type TransferMetrics struct {
	idsIssued        prometheus.Counter
	blocksUploaded   prometheus.Counter
	blocksDownloaded prometheus.Counter
	uploadBytes      prometheus.Counter
	downloadBytes    prometheus.Counter
	blocksNotReady   prometheus.Counter
	claimConflicts   prometheus.Counter
}

// NewTransferMetrics creates transfer metrics, or nil when metrics are
// disabled.
func NewTransferMetrics() *TransferMetrics {
	reg := GetRegistry()
	if reg == nil {
		return nil
	}

	return &TransferMetrics{
		idsIssued: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_ids_issued_total",
			Help: "Total number of access IDs issued",
		}),
		blocksUploaded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_blocks_uploaded_total",
			Help: "Total number of file blocks accepted for upload",
		}),
		blocksDownloaded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_blocks_downloaded_total",
			Help: "Total number of file blocks delivered to receivers",
		}),
		uploadBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_upload_bytes_total",
			Help: "Total bytes accepted for upload",
		}),
		downloadBytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_download_bytes_total",
			Help: "Total bytes delivered to receivers",
		}),
		blocksNotReady: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_blocks_not_ready_total",
			Help: "Total downloads that exhausted the block wait window",
		}),
		claimConflicts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_claim_conflicts_total",
			Help: "Total downloads rejected because another receiver holds the claim",
		}),
	}
}

// ObserveIDIssued records a successful ID issuance.
func (m *TransferMetrics) ObserveIDIssued() {
	if m == nil {
		return
	}
	m.idsIssued.Inc()
}

// ObserveUpload records an accepted block upload of the given size.
func (m *TransferMetrics) ObserveUpload(bytes int) {
	if m == nil {
		return
	}
	m.blocksUploaded.Inc()
	m.uploadBytes.Add(float64(bytes))
}

// ObserveDownload records a delivered block of the given size.
func (m *TransferMetrics) ObserveDownload(bytes int) {
	if m == nil {
		return
	}
	m.blocksDownloaded.Inc()
	m.downloadBytes.Add(float64(bytes))
}

// ObserveBlockNotReady records an exhausted block wait window.
func (m *TransferMetrics) ObserveBlockNotReady() {
	if m == nil {
		return
	}
	m.blocksNotReady.Inc()
}

// ObserveClaimConflict records a rejected claim attempt.
func (m *TransferMetrics) ObserveClaimConflict() {
	if m == nil {
		return
	}
	m.claimConflicts.Inc()
}

// SignalMetrics instruments the signaling rooms.
type SignalMetrics struct {
	roomsActive     prometheus.Gauge
	peersConnected  prometheus.Gauge
	framesForwarded prometheus.Counter
	roomsTaken      prometheus.Counter
}

// NewSignalMetrics creates signaling metrics, or nil when metrics are
// disabled.
func NewSignalMetrics() *SignalMetrics {
	reg := GetRegistry()
	if reg == nil {
		return nil
	}

	return &SignalMetrics{
		roomsActive: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "fileflow_signal_rooms_active",
			Help: "Number of signaling rooms with at least one peer",
		}),
		peersConnected: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "fileflow_signal_peers_connected",
			Help: "Number of connected signaling peers",
		}),
		framesForwarded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_signal_frames_forwarded_total",
			Help: "Total text frames relayed between peers",
		}),
		roomsTaken: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fileflow_signal_rooms_taken_total",
			Help: "Total join attempts rejected because the slot was occupied",
		}),
	}
}

// SetRooms updates the active-room gauge.
func (m *SignalMetrics) SetRooms(n int) {
	if m == nil {
		return
	}
	m.roomsActive.Set(float64(n))
}

// PeerConnected increments the connected-peer gauge.
func (m *SignalMetrics) PeerConnected() {
	if m == nil {
		return
	}
	m.peersConnected.Inc()
}

// PeerDisconnected decrements the connected-peer gauge.
func (m *SignalMetrics) PeerDisconnected() {
	if m == nil {
		return
	}
	m.peersConnected.Dec()
}

// ObserveForward records one relayed text frame.
func (m *SignalMetrics) ObserveForward() {
	if m == nil {
		return
	}
	m.framesForwarded.Inc()
}

// ObserveRoomTaken records a rejected join.
func (m *SignalMetrics) ObserveRoomTaken() {
	if m == nil {
		return
	}
	m.roomsTaken.Inc()
}
