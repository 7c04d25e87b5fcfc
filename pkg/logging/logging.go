// Package logging builds the service logger: a zap core wrapped in the
// ectologger adapter.
package logging

import (
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
)

// New returns the service logger. Development mode uses zap's console
// encoder; production uses JSON.
func New(appName string, development bool) (ectologger.Logger, error) {
	var zapLogger *zap.Logger
	var err error
	if development {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zapLogger = zapLogger.Named(appName)

	return zapadapter.NewZapEctoLogger(zapLogger, nil), nil
}
