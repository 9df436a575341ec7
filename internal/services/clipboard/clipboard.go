// Package clipboard hands rendered traversal output to the host clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier is the sink used by --copy. The indirection keeps command tests
// off the real clipboard.
type Copier interface {
	Copy(text string) error
}

// Service is the production Copier backed by the host clipboard.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
