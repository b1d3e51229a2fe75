package session

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/coodar/dscli/internal/logging"
	"github.com/coodar/dscli/internal/models"
)

// Settings seeds a State
type Settings struct {
	Model       string
	Temperature float64
	Stream      bool
	Debug       bool
	Models      []models.ModelInfo
}

// State holds the toggles that live for the whole process. Only command
// handlers and the turn's own cancellation logic change it.
type State struct {
	mu          sync.RWMutex
	activeModel string
	temperature float64
	stream      bool
	multiLine   bool
	debug       bool
	models      []models.ModelInfo

	interrupt atomic.Bool
	base      zerolog.Logger
}

// NewState builds the state from settings. The model must be one of the
// available models.
func NewState(s Settings, logger zerolog.Logger) (*State, error) {
	set := s.Models
	if len(set) == 0 {
		set = models.DefaultModels()
	}
	m, ok := models.FindModel(set, s.Model)
	if !ok {
		return nil, fmt.Errorf("unknown model %q", s.Model)
	}

	list := make([]models.ModelInfo, len(set))
	copy(list, set)

	return &State{
		activeModel: m.ID,
		temperature: s.Temperature,
		stream:      s.Stream,
		debug:       s.Debug,
		models:      list,
		base:        logger,
	}, nil
}

// ActiveModel returns the id of the model used for the next turn
func (st *State) ActiveModel() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.activeModel
}

// ActiveModelInfo returns the catalog entry of the active model
func (st *State) ActiveModelInfo() models.ModelInfo {
	st.mu.RLock()
	defer st.mu.RUnlock()
	m, _ := models.FindModel(st.models, st.activeModel)
	return m
}

// SetActiveModel switches to id, which must be in the available set.
// The conversation is kept.
func (st *State) SetActiveModel(id string) (models.ModelInfo, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	m, ok := models.FindModel(st.models, id)
	if !ok {
		return models.ModelInfo{}, fmt.Errorf("unknown model %q", id)
	}
	st.activeModel = m.ID
	return m, nil
}

// Models returns the ordered set of selectable models
func (st *State) Models() []models.ModelInfo {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]models.ModelInfo, len(st.models))
	copy(out, st.models)
	return out
}

// SupportsReasoning reports whether the active model has a reasoning channel
func (st *State) SupportsReasoning() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return models.SupportsReasoning(st.models, st.activeModel)
}

// Temperature returns the sampling temperature
func (st *State) Temperature() float64 {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.temperature
}

// StreamEnabled reports whether turns stream their output
func (st *State) StreamEnabled() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.stream
}

// ToggleStream flips streaming and returns the new value
func (st *State) ToggleStream() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.stream = !st.stream
	return st.stream
}

// MultiLine reports whether multi-line capture is on
func (st *State) MultiLine() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.multiLine
}

// SetMultiLine turns multi-line capture on or off
func (st *State) SetMultiLine(on bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.multiLine = on
}

// Debug reports whether diagnostic output is on
func (st *State) Debug() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.debug
}

// ToggleDebug flips diagnostic output and returns the new value
func (st *State) ToggleDebug() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.debug = !st.debug
	return st.debug
}

// Logger returns the base logger leveled by the debug toggle
func (st *State) Logger() zerolog.Logger {
	return st.base.Level(logging.Level(st.Debug()))
}

// RequestInterrupt asks the running turn to stop at its next poll
func (st *State) RequestInterrupt() {
	st.interrupt.Store(true)
}

// TakeInterrupt reports and clears a pending interrupt request
func (st *State) TakeInterrupt() bool {
	return st.interrupt.Swap(false)
}

// InterruptRequested reports a pending request without clearing it
func (st *State) InterruptRequested() bool {
	return st.interrupt.Load()
}
