// Package strategy provides lead distribution strategies for bulk
// assignment.
//
// A strategy only plans which rep receives each lead; capacity enforcement
// and idempotency live in the assignment engine, which every planned
// assignment is applied through. Strategies are deterministic for a given
// (reps, leads) input.
//
//   - RoundRobin: even spread, predictable, no affinity
//   - CampaignAffinity: all leads of one campaign land on the same rep,
//     stable under rep-list reordering
package strategy
