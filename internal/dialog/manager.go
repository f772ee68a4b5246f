package dialog

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Manager binds an Orchestrator to the registry and to the store its
// editors commit to.
type Manager struct {
	orchestrator *Orchestrator
	registry     *Registry
	env          Env
	log          zerolog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithRegistry replaces the default registry.
func WithRegistry(r *Registry) ManagerOption {
	return func(m *Manager) { m.registry = r }
}

// WithIDGenerator sets how new items are identified.
func WithIDGenerator(newID func() string) ManagerOption {
	return func(m *Manager) { m.env.NewID = newID }
}

// WithValidator sets the form validator.
func WithValidator(v *validator.Validate) ManagerOption {
	return func(m *Manager) { m.env.Validate = v }
}

// WithManagerLogger sets the manager logger.
func WithManagerLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = log.With().Str("component", "dialog").Logger() }
}

// NewManager creates a closed dialog manager committing through c.
func NewManager(c Committer, opts ...ManagerOption) *Manager {
	o := NewOrchestrator()
	m := &Manager{
		orchestrator: o,
		env:          Env{Committer: c, Dismisser: o},
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = NewRegistry()
	}
	m.env = m.env.withDefaults()
	return m
}

// Orchestrator returns the underlying state machine.
func (m *Manager) Orchestrator() *Orchestrator { return m.orchestrator }

// Registry returns the view registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Request opens the editor for intent.
func (m *Manager) Request(intent Intent) {
	m.log.Debug().Str("intent", string(intent.Type)).Msg("Dialog requested")
	m.orchestrator.Request(intent)
}

// RequestJSON opens the editor for t with data decoded from raw. Empty raw
// means no data.
func (m *Manager) RequestJSON(t IntentType, raw json.RawMessage) error {
	var data any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("failed to decode intent data: %w", err)
		}
	}
	m.Request(Intent{Type: t, Data: data})
	return nil
}

// Dismiss closes the open dialog.
func (m *Manager) Dismiss() { m.orchestrator.Dismiss() }

// Current returns the view for the open intent. It is nil when no dialog is
// open or the intent has no view. The view only ever closes the intent it
// was rendered for.
func (m *Manager) Current() View {
	intent, gen, ok := m.orchestrator.opened()
	if !ok {
		return nil
	}
	env := m.env
	env.Dismisser = openDialog{o: m.orchestrator, gen: gen}
	v := m.registry.Render(intent, env)
	if v == nil {
		m.log.Debug().Str("intent", string(intent.Type)).Msg("No view for intent")
	}
	return v
}

// Submit commits form through the open view.
func (m *Manager) Submit(form json.RawMessage) error {
	v := m.Current()
	if v == nil {
		return ErrNoDialog
	}
	if err := v.Submit(form); err != nil {
		m.log.Debug().Err(err).Str("intent", string(v.Intent().Type)).Msg("Dialog submit rejected")
		return err
	}
	return nil
}

// Cancel closes the open view without committing.
func (m *Manager) Cancel() {
	if v := m.Current(); v != nil {
		v.Cancel()
		return
	}
	m.orchestrator.Dismiss()
}
