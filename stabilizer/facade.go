/*
NAME
  facade.go

DESCRIPTION
  facade.go implements the Concurrency Façade (spec.md §4.K/§5): the
  single mutex-guarded boundary around Core plus the adaptive controller,
  modeled on revid.Revid's exclusive-lock-per-call pattern and its
  err-channel error-reporting goroutine.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package stabilizer

import (
	"sync"

	"github.com/ausocean/utils/logging"

	"github.com/azumag/obs-stabilizer-sub000/adaptive"
	"github.com/azumag/obs-stabilizer-sub000/frameview"
	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
)

// Facade is the sole thread-safety boundary around the stabilizer core:
// one video thread drives ProcessFrame while a second thread may
// concurrently call UpdateParameters, Reset, or the metric getters.
// Every exported method holds mu for its entire duration.
type Facade struct {
	mu sync.Mutex

	core       *Core
	controller *adaptive.Controller
	logger     logging.Logger

	adaptiveCfg adaptive.Config

	err chan error
}

// NewFacade returns a Facade wrapping a Core built from deps. If logger
// is nil, NewLogger("", logging.Info) is used.
func NewFacade(deps Deps, adaptiveCfg adaptive.Config, logger logging.Logger) *Facade {
	if logger == nil {
		logger = NewLogger("", logging.Info)
	}
	f := &Facade{
		core:        NewCore(deps),
		logger:      logger,
		adaptiveCfg: adaptiveCfg,
		err:         make(chan error, 16),
	}
	go f.handleErrors()
	return f
}

func (f *Facade) handleErrors() {
	for err := range f.err {
		if err != nil {
			f.logger.Error("async stabilizer error", "error", err.Error())
		}
	}
}

// Initialize admits w, h and p (clamped), starting a fresh stream.
func (f *Facade) Initialize(w, h int, p params.Params) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.core.Initialize(w, h, p); err != nil {
		f.logger.Warning("initialize failed", "error", err.Error())
		return err
	}
	f.controller = adaptive.NewController(f.adaptiveCfg, f.core.Params())
	f.logger.Info("stabilizer initialized", "width", w, "height", h)
	return nil
}

// ProcessFrame runs one frame through the core and, if the resulting
// transform history is long enough, steps the adaptive controller so
// the *next* frame observes any retargeted params (spec.md §5's ordering
// guarantee).
func (f *Facade) ProcessFrame(in *frameview.View) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out, err := f.core.ProcessFrame(in)
	if err != nil {
		select {
		case f.err <- err:
		default:
		}
	}

	if f.controller != nil {
		if next, changed := f.controller.Step(f.core.transforms); changed {
			f.core.UpdateParameters(next)
		}
	}

	return out, err
}

// UpdateParameters clamps and forwards p to the core, observed no later
// than the next ProcessFrame call after this one returns.
func (f *Facade) UpdateParameters(p params.Params) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.core.UpdateParameters(p)
}

// Reset clears all per-stream state, returning the core to Initializing.
func (f *Facade) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.core.Reset()
	if f.controller != nil {
		f.controller = adaptive.NewController(f.adaptiveCfg, f.core.Params())
	}
}

// GetMetrics returns a snapshot of the core's metrics.
func (f *Facade) GetMetrics() Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.core.Metrics()
}

// GetCurrentParams returns a snapshot of the core's active params.
func (f *Facade) GetCurrentParams() params.Params {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.core.Params()
}

// GetLastError returns the most recently recorded fault, or "".
func (f *Facade) GetLastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.core.LastError()
}
