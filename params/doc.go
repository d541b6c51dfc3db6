// Package params defines the fixed parameter set shared by the relaxation
// and the spin-pair experiments.
//
// A Set is a plain value. It is built once, validated, and then passed by
// value to every component, so no component can observe another one's
// changes. All values are float64; constants that were historically given
// with more digits are rounded to machine precision here and nowhere else.
package params
