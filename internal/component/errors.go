package component

import (
	"errors"
	"fmt"
)

// Illegal requests and stale references are reported as errors.
var (
	// ErrHasParent indicates an attach of a component that already has a parent.
	ErrHasParent = errors.New("component: component already has a parent")

	// ErrCycle indicates an attach that would make a component its own ancestor.
	ErrCycle = errors.New("component: attach would create a cycle")

	// ErrIncompatible indicates the parent does not accept the child's kind.
	ErrIncompatible = errors.New("component: child kind not accepted by parent")

	// ErrIndexRange indicates a child index outside the parent's child list.
	ErrIndexRange = errors.New("component: child index out of range")

	// ErrNotChild indicates a move of a component under a different parent.
	ErrNotChild = errors.New("component: not a child of this parent")

	// ErrStaleHandle indicates a handle whose slot was released or reused.
	ErrStaleHandle = errors.New("component: stale handle")

	// ErrInvalidated indicates use of a component whose contents were replaced.
	ErrInvalidated = errors.New("component: component has been invalidated")

	// ErrTreeModified indicates a traversal outlived a structural change.
	ErrTreeModified = errors.New("component: tree modified during traversal")

	// ErrForeignTree indicates components from different trees in one operation.
	ErrForeignTree = errors.New("component: components belong to different trees")

	// ErrNotRoot indicates an operation that needs a parentless component.
	ErrNotRoot = errors.New("component: component has a parent")

	// ErrUnsupported indicates a property the component kind does not have.
	ErrUnsupported = errors.New("component: property not supported by kind")

	// ErrBypassActive indicates a replica registration on a bypassed component.
	ErrBypassActive = errors.New("component: change events are bypassed")

	// ErrReplicaChain indicates a replica that has replicas of its own.
	ErrReplicaChain = errors.New("component: replica already has replicas")

	// ErrPresetKind indicates a preset for a different component kind.
	ErrPresetKind = errors.New("component: preset kind mismatch")
)

// StructureError wraps an illegal structural request with its context.
type StructureError struct {
	Op     string
	Parent string
	Child  string
	Err    error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s %s under %s: %v", e.Op, e.Child, e.Parent, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// InvariantError is the panic value raised when the tree's internal
// consistency is broken. It signals a programming error, not bad input.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "component: inconsistent structure: " + e.Detail
}

// RaceError is the panic value raised when a component is mutated while a
// read operation holds its lock.
type RaceError struct {
	Component string
	Holder    string
}

func (e *RaceError) Error() string {
	return fmt.Sprintf("component: concurrent access to %s while locked by %s", e.Component, e.Holder)
}

func invariant(format string, args ...any) {
	panic(&InvariantError{Detail: fmt.Sprintf(format, args...)})
}
