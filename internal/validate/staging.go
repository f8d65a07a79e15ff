package validate

import (
	"sync"

	"github.com/veridash/veridash/internal/models"
)

// Staging holds the single staged file slot. Staging a new file or
// clearing replaces the prior one and clears any validation error.
type Staging struct {
	mu   sync.Mutex
	file *models.FileBlob
	err  error
}

// NewStaging creates an empty staging slot.
func NewStaging() *Staging {
	return &Staging{}
}

// Stage replaces the staged file and revalidates. The returned error is
// also retained for inline display until the next Stage or Clear.
func (s *Staging) Stage(f *models.FileBlob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = f
	s.err = File(f)
	return s.err
}

// Clear removes the staged file and any validation error.
func (s *Staging) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = nil
	s.err = nil
}

// File returns the currently staged file, or nil.
func (s *Staging) File() *models.FileBlob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Err returns the validation error for the staged file, or nil.
func (s *Staging) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
