package server

import (
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/internal/repositories/item"
	"github.com/Ramsey-B/fern/internal/repositories/record"
	"github.com/Ramsey-B/fern/internal/repositories/term"
	"github.com/Ramsey-B/fern/pkg/processor"
)

// registerDependencies fills the default dependency container with the
// instances route handlers resolve via ectoinject.GetContext.
func registerDependencies(
	logger ectologger.Logger,
	recordRepo *record.Repository,
	itemRepo *item.Repository,
	termRepo *term.Repository,
	proc *processor.Processor,
) error {
	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return err
	}

	if err := ectoinject.RegisterInstance[ectologger.Logger](container, logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*record.Repository](container, recordRepo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*item.Repository](container, itemRepo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*term.Repository](container, termRepo); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*processor.Processor](container, proc); err != nil {
		return err
	}

	return nil
}
