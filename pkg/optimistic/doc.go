// Package optimistic manages a record collection whose mutations show up
// immediately and are confirmed or rolled back once the caller's
// persistence function returns.
//
// The list keeps two layers: the confirmed base collection and an ordered
// log of in-flight mutations. Items replays the log over the base. A
// mutation that succeeds folds the server's answer into the base; one that
// fails is dropped from the log. Each mutation therefore rolls back on its
// own, and a failure never undoes another call that is still in flight.
package optimistic
