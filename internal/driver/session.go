package driver

import (
	"fmt"

	"numtype/internal/config"
	"numtype/internal/types"
	"numtype/internal/universe"
)

// Session binds a resolver to the universe it was configured with. It is
// read-only after NewSession and may be shared by concurrent checks.
type Session struct {
	setup    *config.Setup
	resolver *types.Resolver
	scope    *universe.Scope
}

// NewSession prepares a session whose queries default to scopeName ("" for
// the universe default scope).
func NewSession(setup *config.Setup, scopeName string) (*Session, error) {
	if setup == nil || setup.Universe == nil {
		return nil, fmt.Errorf("driver: missing setup")
	}
	scope, err := setup.Universe.Scope(scopeName)
	if err != nil {
		return nil, err
	}
	return &Session{setup: setup, resolver: setup.Resolver(), scope: scope}, nil
}

func (s *Session) Setup() *config.Setup          { return s.setup }
func (s *Session) Resolver() *types.Resolver     { return s.resolver }
func (s *Session) Universe() *universe.Universe  { return s.setup.Universe }
func (s *Session) DefaultScope() *universe.Scope { return s.scope }

// Scope resolves a query's scope override; "" selects the session default.
func (s *Session) Scope(name string) (*universe.Scope, error) {
	if name == "" {
		return s.scope, nil
	}
	return s.setup.Universe.Scope(name)
}
