// Package dynamo provides the shared vocabulary of the flight simulation.
//
// Every component the assembler builds is handed out behind one of the
// interfaces defined here:
//
//   - [FlightZone]: wind and thermal field queried at a position
//   - [Aircraft]: dynamics model (dX/dt = f(X, u, t)) owning its state
//   - [Stepper]: fixed-step numerical integrator
//   - [Pilot]: control policy producing a [Control] from a [State]
//
// # Units
//
// Angles are stored in radians everywhere past the configuration boundary.
// Configuration documents carry degrees; use [ToRad] when reading them.
//
// # Example
//
//	zone := zone.NewFlat(3, -1.5)
//	st := integrators.NewRK4(0.01)
//	x = dynamo.Advance(st, glider, x, u, t, 0.1)
package dynamo
