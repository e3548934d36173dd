package catalog

import (
	"errors"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// MachineStore owns the machines collection. All mutations go through it.
type MachineStore struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// NewMachineStore returns a store backed by the JSON document at path.
func NewMachineStore(path string, log *zap.Logger) *MachineStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &MachineStore{path: path, log: log}
}

// List returns all machines in insertion order. A missing document yields an
// empty catalog; any other read failure is logged and also yields an empty
// catalog, so callers never see a hard failure from a read.
func (s *MachineStore) List() []Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *MachineStore) load() []Machine {
	machines, err := readDocument[Machine](s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Machine{}
		}
		s.log.Warn("failed to read machines document", zap.String("path", s.path), zap.Error(err))
		return []Machine{}
	}
	return machines
}

// Add validates the machine and appends it, rejecting models that already
// exist (case-insensitive).
func (s *MachineStore) Add(m Machine) error {
	if err := ValidateMachine(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	machines := s.load()
	for _, existing := range machines {
		if strings.EqualFold(existing.Model, m.Model) {
			return &DuplicateKeyError{Key: m.Model}
		}
	}

	machines = append(machines, m)
	if err := writeDocument(s.path, machines); err != nil {
		return err
	}

	s.log.Info("machine added", zap.String("model", m.Model))
	return nil
}

// Update replaces the machine stored under originalModel in place. Renaming
// onto a different existing model is rejected.
func (s *MachineStore) Update(originalModel string, m Machine) error {
	if err := ValidateMachine(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	machines := s.load()
	idx := -1
	for i, existing := range machines {
		if existing.Model == originalModel {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Key: originalModel}
	}

	if !strings.EqualFold(originalModel, m.Model) {
		for i, existing := range machines {
			if i != idx && strings.EqualFold(existing.Model, m.Model) {
				return &DuplicateKeyError{Key: m.Model}
			}
		}
	}

	machines[idx] = m
	if err := writeDocument(s.path, machines); err != nil {
		return err
	}

	s.log.Info("machine updated", zap.String("original_model", originalModel), zap.String("model", m.Model))
	return nil
}

// Delete removes the machine with the given model.
func (s *MachineStore) Delete(model string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	machines := s.load()
	remaining := make([]Machine, 0, len(machines))
	for _, existing := range machines {
		if existing.Model != model {
			remaining = append(remaining, existing)
		}
	}
	if len(remaining) == len(machines) {
		return &NotFoundError{Key: model}
	}

	if err := writeDocument(s.path, remaining); err != nil {
		return err
	}

	s.log.Info("machine deleted", zap.String("model", model))
	return nil
}

// FindByModel returns the machine with the exact model name.
func (s *MachineStore) FindByModel(model string) (Machine, bool) {
	for _, m := range s.List() {
		if m.Model == model {
			return m, true
		}
	}
	return Machine{}, false
}

// Types returns the distinct machine types in first-seen order.
func (s *MachineStore) Types() []string {
	seen := make(map[string]bool)
	types := make([]string, 0)
	for _, m := range s.List() {
		if !seen[m.Type] {
			seen[m.Type] = true
			types = append(types, m.Type)
		}
	}
	return types
}
