// Package accumulator holds the single shared register every connection
// mutates. All access goes through one mutex; arithmetic wraps at 8 bits.
package accumulator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/acortes/distributed_calculator/operation"
)

// ErrPoisoned is returned by every access after a previous holder failed
// while holding the lock. Go mutexes do not poison on their own, so the
// condition is tracked explicitly: proceeding against a register whose last
// mutation aborted halfway could commit or return an inconsistent value.
var ErrPoisoned = errors.New("accumulator unusable: a previous operation failed while holding the lock")

// Accumulator is the process-wide arithmetic register, created once at
// server start with value 0 and shared by every connection handler.
type Accumulator struct {
	mu       sync.Mutex
	value    uint8
	poisoned bool
}

func New() *Accumulator {
	return &Accumulator{}
}

// Apply mutates the register under the lock. Add, Sub and Mul wrap modulo
// 2^8 (native uint8 arithmetic); Div truncates and cannot divide by zero
// because the parser rejects zero divisors. A panic raised while the lock is
// held marks the register poisoned before the error is returned.
func (a *Accumulator) Apply(op operation.Operation) (err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.poisoned {
		return ErrPoisoned
	}

	defer func() {
		if r := recover(); r != nil {
			a.poisoned = true
			err = fmt.Errorf("%w: %v", ErrPoisoned, r)
		}
	}()

	switch op.Op {
	case operation.Add:
		a.value += op.Operand
	case operation.Sub:
		a.value -= op.Operand
	case operation.Mul:
		a.value *= op.Operand
	case operation.Div:
		a.value /= op.Operand
	}
	return nil
}

// Value reads the register under the same exclusive lock as Apply. A
// read-write lock would allow concurrent GETs with identical observable
// behavior; the critical section is a single in-memory read, so the simpler
// mutex is kept.
func (a *Accumulator) Value() (uint8, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.poisoned {
		return 0, ErrPoisoned
	}
	return a.value, nil
}
