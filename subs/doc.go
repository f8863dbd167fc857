// Package subs defines subscriptions as plain values.
//
// A Sub describes what an application wants to listen for: ticking clocks,
// socket traffic, queue deliveries. It carries no live resource. Building,
// batching, and mapping subscriptions are pure operations that can run any
// number of times with no observable effect; the platform runtime compares
// the tree an application returns against what is already running and
// opens or closes only the difference.
//
// # The algebra
//
//   - None is the empty subscription and the identity of Batch.
//   - Batch composes subscriptions in order.
//   - Leaf declares one subscription of one Kind.
//   - Map rebinds leaf mappers without disturbing subscription identity.
//
// # Identity
//
// A leaf is identified by its Kind together with the key its Request
// derives. Identity is deliberately explicit: requests implement SubKey
// rather than relying on structural comparison, because a request holding
// a callback or a channel still needs a stable, comparable key. Two leaves
// with equal identity are the same live subscription, so re-declaring a
// leaf with a new mapper re-binds the mapper and nothing else. Connection
// state held by a manager, retry backoff included, survives re-renders
// untouched.
package subs
