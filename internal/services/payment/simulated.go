package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type simulatedHold struct {
	amountMinor int64
	status      string
}

// SimulatedGateway keeps holds in memory. It is the development gateway and
// the test double for failure paths.
type SimulatedGateway struct {
	mu         sync.Mutex
	holds      map[string]*simulatedHold
	failures   map[string]error
	failAlways bool
}

func NewSimulatedGateway() *SimulatedGateway {
	return &SimulatedGateway{
		holds:    make(map[string]*simulatedHold),
		failures: make(map[string]error),
	}
}

// FailNext makes the next call of op ("authorize", "capture" or "void")
// return err.
func (g *SimulatedGateway) FailNext(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[op] = err
}

// SetDeclineAll makes every authorization fail with ErrDeclined.
func (g *SimulatedGateway) SetDeclineAll(decline bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failAlways = decline
}

func (g *SimulatedGateway) Authorize(_ context.Context, auth Authorization) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.takeFailure("authorize"); err != nil {
		return "", err
	}
	if g.failAlways {
		return "", ErrDeclined
	}
	if !auth.Amount.IsPositive() {
		return "", ErrInvalidAmount
	}

	// Any method is accepted; an empty one stands for a test card.
	ref := "sim_" + uuid.NewString()
	g.holds[ref] = &simulatedHold{amountMinor: minorUnits(auth.Amount), status: "authorized"}
	return ref, nil
}

func (g *SimulatedGateway) Capture(_ context.Context, reference string) error {
	return g.settle("capture", reference, "captured")
}

func (g *SimulatedGateway) Void(_ context.Context, reference string) error {
	return g.settle("void", reference, "voided")
}

func (g *SimulatedGateway) Provider() string { return ProviderSimulated }

// Status reports the state of a hold, or "" for an unknown reference.
func (g *SimulatedGateway) Status(reference string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if hold, ok := g.holds[reference]; ok {
		return hold.status
	}
	return ""
}

func (g *SimulatedGateway) settle(op, reference, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.takeFailure(op); err != nil {
		return err
	}
	hold, ok := g.holds[reference]
	if !ok {
		return ErrUnknownReference
	}
	if hold.status == status {
		return nil
	}
	if hold.status != "authorized" {
		return fmt.Errorf("cannot %s a hold that is %s", op, hold.status)
	}
	hold.status = status
	return nil
}

func (g *SimulatedGateway) takeFailure(op string) error {
	err, ok := g.failures[op]
	if !ok {
		return nil
	}
	delete(g.failures, op)
	return err
}
