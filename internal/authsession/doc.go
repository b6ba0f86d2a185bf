// Package authsession owns the console operator session.
//
// A Manager talks to the managed identity service (password sign-in and
// refresh-token exchange over REST), verifies the RS256 ID tokens it gets
// back, keeps the session credential in the selected persistence store and
// notifies listeners about auth state changes.
//
// All state changes and listener deliveries run on a single event loop
// goroutine in the order they were requested, so at most one listener body
// executes at a time and a new listener always sees the current state before
// any later transition. Listeners may call methods that only enqueue work
// (Subscribe, the returned unsubscribe function) but must not block on
// SignIn, SignOut or SetPersistence, which wait for the loop.
package authsession
