package httpapi

import (
	"context"
	"errors"
	"sync"

	"github.com/roadscout/report-service/internal/domain"
)

// deviceLocator adapts device-reported position fixes to the Locator
// interface. The phone owns the GPS hardware; it pushes each fix to the
// draft's location route, and the orchestrator reads the latest one here.
type deviceLocator struct {
	mu    sync.Mutex
	coord domain.Coordinate
	set   bool
}

var errNoFix = errors.New("no position reported by device")

func (l *deviceLocator) Report(c domain.Coordinate) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.coord = c
	l.set = true
}

func (l *deviceLocator) CurrentPosition(_ context.Context, _ domain.FixRequest) (domain.Coordinate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.set {
		return domain.Coordinate{}, errNoFix
	}
	return l.coord, nil
}
