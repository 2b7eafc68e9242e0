// Package game implements the FMK session engine.
//
// The core is a pure reducer over an immutable State: every user intent
// becomes an Action, and Reduce returns a fresh snapshot without
// touching the old one. The reducer is total: invalid requests (assign
// with no active round, a duplicate assignment value) set the state's
// Err field and change nothing else, so the transition function is
// defined for every action in every state.
//
// Randomness never enters the reducer. The Controller sources round
// people through the selection package and hands the engine a
// validated triplet via SetRoundPeople, which keeps transitions
// deterministic under test.
//
// # Deterministic testing
//
// Inject a mock clock and a fixed id function:
//
//	clock := quartz.NewMock(t)
//	r := game.NewReducer(clock, game.WithIDFunc(func() string { return "id-1" }))
//	state := r.Reduce(game.InitialState(), game.StartGame{...})
//
// The state machine:
//
//	idle → selecting → playing → reviewing → (selecting | complete)
//
// with idle/complete reachable from anywhere via Reset/EndGame.
package game
