// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package acmodel maps air-conditioner model identifiers to IR encoders.
//
// Every brand exposes the same capability: turn a command into raw mark/space
// durations on a carrier. Only the Tadiran encoder is implemented; the other
// brands known to the web remote are registered as unsupported stubs so that
// model identifiers stay stable.
package acmodel

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/acwebremote/acremote/pkg/tadiran"
)

var (
	// ErrUnknownModel is returned when no encoder is registered for an identifier.
	ErrUnknownModel = errors.New("unknown AC model")

	// ErrUnsupportedModel is returned by stub encoders.
	ErrUnsupportedModel = errors.New("AC model not supported")
)

// Command is the brand-independent command shared by all encoders.
type Command = tadiran.Command

// Signal is a raw IR signal ready for a transmitter.
type Signal struct {
	Durations  []uint16
	CarrierKHz uint8
}

// Encoder turns a command into a raw IR signal.
type Encoder interface {
	Encode(cmd Command) (Signal, error)
}

// Model is a registry entry.
type Model struct {
	ID        int
	Name      string
	Supported bool
	Encoder   Encoder
}

// Registry maps model identifiers to encoders. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	models map[int]Model
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[int]Model)}
}

// Register adds or replaces the encoder for id.
func (r *Registry) Register(id int, name string, enc Encoder) {
	_, stub := enc.(unsupported)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[id] = Model{ID: id, Name: name, Supported: !stub, Encoder: enc}
}

// Lookup returns the model registered for id.
func (r *Registry) Lookup(id int) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return Model{}, fmt.Errorf("%w: %d", ErrUnknownModel, id)
	}
	return m, nil
}

// LookupName finds a model by identifier or by case-insensitive name.
// Spaces and dashes in names are ignored, so "mitsubishi-heavy-88" matches
// "Mitsubishi Heavy 88".
func (r *Registry) LookupName(name string) (Model, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(name)); err == nil {
		return r.Lookup(id)
	}

	want := normalizeName(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.models {
		if normalizeName(m.Name) == want {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// Models returns all registered models ordered by identifier.
func (r *Registry) Models() []Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]Model, 0, len(r.models))
	for _, m := range r.models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models
}

// Encode looks up id and encodes cmd with its encoder.
func (r *Registry) Encode(id int, cmd Command) (Signal, error) {
	m, err := r.Lookup(id)
	if err != nil {
		return Signal{}, err
	}
	sig, err := m.Encoder.Encode(cmd)
	if err != nil {
		return Signal{}, fmt.Errorf("%s: %w", m.Name, err)
	}
	return sig, nil
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name)
}
