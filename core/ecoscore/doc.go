// Package ecoscore implements the Eco-Score engine: a deterministic scoring
// function mapping an itinerary to its estimated emissions, a bounded score
// and a set of recommendations.
//
// The engine is a pure function of its input. It holds no reference to the
// itinerary it scores and keeps no state between calls, so a single Engine
// can be shared by every session.
//
// Everything the engine decides is driven by two explicit tables: the
// per-mode emission factors (FactorTable) and the recommendation rules
// (Rules). Both can be inspected at runtime.
package ecoscore
