package transfer

import (
	"io"
	"sync/atomic"
)

// Monitor keeps process-wide transfer counters. Observability only, none
// of the serving logic depends on it. All fields are atomics so handlers
// update it without locking.
type Monitor struct {
	activeDownloads    atomic.Int64
	activeUploads      atomic.Int64
	completedDownloads atomic.Int64
	completedUploads   atomic.Int64
	bytesServed        atomic.Int64
	bytesReceived      atomic.Int64
}

// MonitorSnapshot is a point-in-time copy of the counters for /info.
type MonitorSnapshot struct {
	ActiveDownloads    int64 `json:"activeDownloads"`
	ActiveUploads      int64 `json:"activeUploads"`
	CompletedDownloads int64 `json:"completedDownloads"`
	CompletedUploads   int64 `json:"completedUploads"`
	BytesServed        int64 `json:"bytesServed"`
	BytesReceived      int64 `json:"bytesReceived"`
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// DownloadStarted increments the active download count and returns a done
// function that must run on every exit path of the transfer.
func (m *Monitor) DownloadStarted() (done func(completed bool)) {
	m.activeDownloads.Add(1)
	return func(completed bool) {
		m.activeDownloads.Add(-1)
		if completed {
			m.completedDownloads.Add(1)
		}
	}
}

// UploadStarted mirrors DownloadStarted for the upload path.
func (m *Monitor) UploadStarted() (done func(completed bool)) {
	m.activeUploads.Add(1)
	return func(completed bool) {
		m.activeUploads.Add(-1)
		if completed {
			m.completedUploads.Add(1)
		}
	}
}

func (m *Monitor) AddServedBytes(n int64) {
	if n > 0 {
		m.bytesServed.Add(n)
	}
}

func (m *Monitor) AddReceivedBytes(n int64) {
	if n > 0 {
		m.bytesReceived.Add(n)
	}
}

func (m *Monitor) Snapshot() MonitorSnapshot {
	return MonitorSnapshot{
		ActiveDownloads:    m.activeDownloads.Load(),
		ActiveUploads:      m.activeUploads.Load(),
		CompletedDownloads: m.completedDownloads.Load(),
		CompletedUploads:   m.completedUploads.Load(),
		BytesServed:        m.bytesServed.Load(),
		BytesReceived:      m.bytesReceived.Load(),
	}
}

// CountingWriter counts every byte written through it into the monitor's
// served total, so partial transfers are counted too.
type CountingWriter struct {
	W io.Writer
	M *Monitor
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.W.Write(p)
	cw.M.AddServedBytes(int64(n))
	return n, err
}
