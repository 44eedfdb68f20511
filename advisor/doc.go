// Package advisor turns a described game situation into strategy text.
//
// Generators are layered the same way regardless of provider:
//
//	Cached(Tiered(primary model, secondary model, RuleBased fallback))
//
// Tiered tries each model-backed tier in order with its own timeout and falls
// through on any error; the rule-based tier renders canned tips from a YAML
// catalog and never fails. Cached memoizes successful model results in an
// expirable LRU. None of the generators touch session or memory state; the
// caller passes the player's recommendation in Request.Personalization.
package advisor
