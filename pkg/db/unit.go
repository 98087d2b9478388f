package db

import "context"

type Func func(ctx context.Context) error

// UnitOfWork runs fn as one all-or-nothing step. Writes made through the
// context handed to fn are committed together when fn returns nil and
// discarded otherwise. Units sharing a scope are serialized; units with
// different scopes proceed independently. fn may be invoked more than once
// when the backend retries a conflicting commit.
type UnitOfWork interface {
	Run(ctx context.Context, scope string, fn Func) error
}
