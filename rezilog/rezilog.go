// Package rezilog provides the module's two ambient observability hooks:
// REZI_PERF=1 phase timing and REZI_FRAME_AUDIT=1 per-frame NDJSON
// records. Both are off unless their environment variable is set, so
// instrumented call sites cost a single bool check in production.
package rezilog

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// PerfEnabled reports whether REZI_PERF=1 is set.
func PerfEnabled() bool {
	return os.Getenv("REZI_PERF") == "1"
}

// FrameAuditEnabled reports whether REZI_FRAME_AUDIT=1 is set.
func FrameAuditEnabled() bool {
	return os.Getenv("REZI_FRAME_AUDIT") == "1"
}

// PerfTimer times named phases of a frame's pipeline (intern, encode,
// publish, ...) and logs them via the standard logger when PerfEnabled.
type PerfTimer struct {
	enabled bool
	logger  *log.Logger
	start   time.Time
	phase   string
}

// NewPerfTimer creates a timer writing to logger (or log.Default() if nil)
// when REZI_PERF=1; otherwise every method is a no-op.
func NewPerfTimer(logger *log.Logger) *PerfTimer {
	if logger == nil {
		logger = log.Default()
	}
	return &PerfTimer{enabled: PerfEnabled(), logger: logger}
}

// Start begins timing phase.
func (p *PerfTimer) Start(phase string) {
	if !p.enabled {
		return
	}
	p.phase = phase
	p.start = time.Now()
}

// End logs the elapsed time since the matching Start call.
func (p *PerfTimer) End() {
	if !p.enabled {
		return
	}
	p.logger.Printf("perf phase=%s elapsed=%s", p.phase, time.Since(p.start))
}

// Phase times fn as a named phase, logging its elapsed time.
func (p *PerfTimer) Phase(name string, fn func()) {
	p.Start(name)
	fn()
	p.End()
}

// FrameAuditRecord is one NDJSON line emitted per frame per pipeline
// stage.
type FrameAuditRecord struct {
	FrameSeq uint64 `json:"frameSeq"`
	Stage    string `json:"stage"`
	Bytes    int    `json:"bytes,omitempty"`
	CmdCount int    `json:"cmdCount,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// FrameAuditWriter appends one JSON object per line (NDJSON) to its
// underlying writer when FrameAuditEnabled.
type FrameAuditWriter struct {
	enabled bool
	enc     *json.Encoder
}

// NewFrameAuditWriter wraps w; every Write is a no-op unless
// REZI_FRAME_AUDIT=1.
func NewFrameAuditWriter(w io.Writer) *FrameAuditWriter {
	return &FrameAuditWriter{enabled: FrameAuditEnabled(), enc: json.NewEncoder(w)}
}

// Write appends rec as one NDJSON line.
func (f *FrameAuditWriter) Write(rec FrameAuditRecord) error {
	if !f.enabled {
		return nil
	}
	return f.enc.Encode(rec)
}
