package workflow

import "fmt"

// Machine tracks a current state and validates action-driven transitions.
type Machine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the action is permitted in the current state
	CanFire(action Action) bool

	// Fire attempts to execute the action, transitioning to the new state if allowed
	Fire(action Action) error

	// PermittedFrom returns the states from which the action may be fired
	PermittedFrom(action Action) []State
}

// Builder builds a configured machine.
type Builder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates a new machine instance with the given initial state
	Build(initialState State) Machine
}

// StateConfiguration configures transitions out of one state.
type StateConfiguration interface {
	// Permit allows an action to transition to the target state
	Permit(action Action, toState State) StateConfiguration
}

type stateConfig struct {
	fromState   State
	transitions map[Action]State
}

type machineBuilder struct {
	configurations map[State]*stateConfig
}

type machine struct {
	currentState   State
	configurations map[State]*stateConfig
}

// NewBuilder creates a new machine builder
func NewBuilder() Builder {
	return &machineBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns a state configuration for the given state
func (b *machineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig{
			fromState:   state,
			transitions: make(map[Action]State),
		}
		b.configurations[state] = config
	}

	return config
}

// Build creates a new machine instance with the given initial state
func (b *machineBuilder) Build(initialState State) Machine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	// Copy configurations so machines built later are unaffected by further
	// builder mutation
	configsCopy := make(map[State]*stateConfig, len(b.configurations))
	for state, config := range b.configurations {
		transitionsCopy := make(map[Action]State, len(config.transitions))
		for action, to := range config.transitions {
			transitionsCopy[action] = to
		}
		configsCopy[state] = &stateConfig{
			fromState:   state,
			transitions: transitionsCopy,
		}
	}

	return &machine{
		currentState:   initialState,
		configurations: configsCopy,
	}
}

// Permit allows an action to transition to the target state
func (c *stateConfig) Permit(action Action, toState State) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	c.transitions[action] = toState
	return c
}

// State returns the current state
func (m *machine) State() State {
	return m.currentState
}

// CanFire returns true if the action is permitted in the current state
func (m *machine) CanFire(action Action) bool {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return false
	}
	_, ok := config.transitions[action]
	return ok
}

// Fire attempts to execute the action, transitioning to the new state if allowed
func (m *machine) Fire(action Action) error {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, m.currentState)
	}

	to, ok := config.transitions[action]
	if !ok {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, m.currentState)
	}

	m.currentState = to
	return nil
}

// PermittedFrom returns the states from which the action may be fired
func (m *machine) PermittedFrom(action Action) []State {
	var states []State
	for state, config := range m.configurations {
		if _, ok := config.transitions[action]; ok {
			states = append(states, state)
		}
	}
	return states
}
