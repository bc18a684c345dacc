// Package linalg provides the sparse linear-algebra kernels of the engine:
// residuals b − Ax, reduced costs c − πᵀA, affine combinations, dot
// products and norms.
//
// All dense outputs are caller-owned, pre-allocated slices — the kernels
// only write, never allocate, which is what lets the Volume Algorithm
// reuse its iteration buffers across thousands of rounds.
//
// Dot products and norms run through numeric.StableSum; the affine dense
// kernels delegate to gonum/floats.  Length mismatches are programming
// errors and panic via the runtime's bounds checks.
package linalg
