// Package geom provides the numeric primitives shared by the component model:
// weighted coordinates on the vehicle axis frame, rotations about the axis,
// tolerance helpers and the mass property formulas of hollow rings and of
// composite solids built from several rings.
//
// The vehicle frame puts X along the axis, pointing aft from the nose tip.
// Y and Z span the cross section.
package geom
