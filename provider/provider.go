// Package provider implements translation backends for the gotdt pipeline.
package provider

import (
	"context"

	"github.com/ZaguanLabs/gotdt"
)

// Provider is an alias to the main package interface for convenience.
type Provider = gotdt.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = gotdt.TranslateRequest

// Pinger is implemented by providers that can check their backend is
// reachable without translating anything.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks p when it implements Pinger and reports success otherwise.
func Ping(ctx context.Context, p Provider) error {
	if pinger, ok := p.(Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}
