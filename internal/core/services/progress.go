package services

import (
	"sync"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
)

// Progress tracks the operation currently running. A nil *Progress
// ignores every update.
type Progress struct {
	mu     sync.RWMutex
	status driving.OperationStatus
}

// NewProgress creates an idle tracker.
func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) start(operation string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = driving.OperationStatus{Operation: operation, Running: true}
}

func (p *Progress) add(processed, problems int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Processed += processed
	p.status.Problems += problems
}

func (p *Progress) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.Running = false
}

// Snapshot returns a copy of the current status.
func (p *Progress) Snapshot() driving.OperationStatus {
	if p == nil {
		return driving.OperationStatus{}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
