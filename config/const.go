package config

// This file hosts non-user-configurable parameters — development and safety
// bounds rather than driver flags. Modeled directly on the teacher's
// config/const.go, which documents a single fixed-point round limit the same
// way.

// SCEVInstantiateDepthLimit bounds the recursion depth of instantiate when
// resolving symbolic parameters in a chrec (spec §4.3.1, §9 Open Question
// guidance on instantiate_parameters). Past this depth the chrec is returned
// un-instantiated (still symbolic) rather than promoted to Top — the
// original's graceful give-up, not a hard analysis failure. A value this low
// has not been observed to lose precision on real loop nests in the
// reference corpus; raising it trades analysis time for head-room on deeply
// nested symbolic parameters.
const SCEVInstantiateDepthLimit = 8

// PointsToWorklistRoundLimit is a runaway-detection bound on the number of
// worklist rounds the points-to solver will run before logging a warning
// diagnostic. The solver is proven monotone-convergent (spec §4.4.5: a
// finite var-id universe, solutions only grow) so this can never change the
// computed fixed point — it exists purely to surface a pathological input
// (e.g. an accidentally-unbounded constraint generator) during development,
// the same spirit as StableRoundLimit in the teacher's backpropagation loop.
const PointsToWorklistRoundLimit = 10000

// CCorePkgPathPrefix namespaces artificial declarations and temporaries
// synthesized by this module's own passes (as opposed to ones present in the
// original source), so diagnostics can distinguish "the compiler synthesized
// this" from "the user wrote this" the way the teacher's NilAwayPkgPathPrefix
// disambiguates its own package from user code.
const CCorePkgPathPrefix = "ccore"
