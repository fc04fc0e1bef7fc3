package provider

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Mock simulates successful transfers without moving funds. The returned
// transaction id is a stable function of the request so repeated calls in
// tests are deterministic.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) TransferToDestination(_ context.Context, amountCents int64, destination, description, _ string) (*Result, error) {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d|%s|%s", amountCents, destination, description)
	return &Result{
		OK:           true,
		ExternalTxID: fmt.Sprintf("MOCK-%07d", h.Sum32()%10_000_000),
		Raw:          map[string]interface{}{"mode": "mock"},
	}, nil
}
