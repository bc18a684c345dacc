// Package parse reads MILP instances into mip.Problem values.
//
// Two formats are supported:
//   - MPS (fixed and free): NAME / ROWS / COLUMNS / RHS / RANGES / BOUNDS
//     sections, integer markers, L/G/E/N row types
//   - PBO (pseudo-Boolean optimisation): a `min:` objective line followed
//     by `≥` / `=` constraints over binary literals, where `~x` denotes
//     1 − x and is expanded at parse time into a negated coefficient and
//     a side offset
//
// Malformed input wraps ErrSyntax with the offending line; the CLI maps
// any parse failure to exit code 1.
package parse
