package memory

import (
	"context"
	"sync"

	"eventstay/pkg/db"
)

type undoKey struct{}

type undoLog struct {
	fns []func()
}

// OnRollback registers fn to run if the unit of work carried by ctx fails.
// Outside a unit of work it does nothing.
func OnRollback(ctx context.Context, fn func()) {
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		log.fns = append(log.fns, fn)
	}
}

// InUnit reports whether ctx belongs to a running unit of work.
func InUnit(ctx context.Context) bool {
	_, ok := ctx.Value(undoKey{}).(*undoLog)
	return ok
}

type scopeLock struct {
	mu   sync.Mutex
	refs int
}

// UnitOfWork serializes units per scope with a mutex and undoes the writes of
// a failed unit in reverse order. Units must not be nested.
type UnitOfWork struct {
	mu     sync.Mutex
	scopes map[string]*scopeLock
}

var _ db.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{scopes: make(map[string]*scopeLock)}
}

func (u *UnitOfWork) Run(ctx context.Context, scope string, fn db.Func) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := u.acquire(scope)
	defer u.release(scope, lock)

	log := &undoLog{}
	defer func() {
		if r := recover(); r != nil {
			log.rollback()
			panic(r)
		}
		if err != nil {
			log.rollback()
		}
	}()

	return fn(context.WithValue(ctx, undoKey{}, log))
}

func (u *UnitOfWork) acquire(scope string) *scopeLock {
	u.mu.Lock()
	lock, ok := u.scopes[scope]
	if !ok {
		lock = &scopeLock{}
		u.scopes[scope] = lock
	}
	lock.refs++
	u.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (u *UnitOfWork) release(scope string, lock *scopeLock) {
	lock.mu.Unlock()

	u.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(u.scopes, scope)
	}
	u.mu.Unlock()
}

func (l *undoLog) rollback() {
	for i := len(l.fns) - 1; i >= 0; i-- {
		l.fns[i]()
	}
	l.fns = nil
}
