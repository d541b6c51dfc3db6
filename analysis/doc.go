// Package analysis turns the trajectories of a run into the scalars that
// are reported at the end of it.
//
// The trajectory functions assume valid input and only check what is cheap
// to verify. AreaProxy, Posterior and SigmaEquivalent are closed-form and
// do not depend on the trajectories at all.
package analysis
