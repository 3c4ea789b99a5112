// Package component models a vehicle as a tree of physical components.
//
// A Tree is an arena: components live in generation checked slots and refer
// to each other by Handle, so a released component is detected instead of
// silently reused. The tree keeps every node's cached axial position, mass
// and drag override owners consistent after each mutation and publishes a
// change event on its bus.
//
// Overrides replace the mass, CG or drag coefficient of a component. With
// the subtree flag the override stands for the whole section, and the
// nearest such ancestor is recorded as the owner of every descendant.
package component
