// Package pilot provides the control policies that fly a glider.
//
// Pilots implement [dynamo.Pilot] and command the rates of incidence,
// sideslip and bank as a three-element [dynamo.Control]:
//
//   - [Passive]: zero rates, the glider keeps its attitude
//   - [Heuristic]: damps flight-path oscillations, banks into lift
//   - [QLearning]: tabular epsilon-greedy learner on the bank channel
//   - [Optimistic]: optimistic planning over bank-rate sequences, using a
//     private glider and zone as its model
//
// Every rate a pilot emits lies within its angle-rate magnitude, in rad/s.
//
// # Usage
//
//	p := pilot.NewHeuristic(15*dynamo.ToRad, 0.02)
//	u := p.Compute(x, t)
package pilot
