/*
Copyright 2025 The llm-d Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package controller

import "sync/atomic"

// leaderFlag is set true when the leader-elected peer-discovery runnable in
// cmd/manager/main.go starts, and false again when it stops (spec §4.13):
// controller-runtime already gates reconciler
// invocation on leader election at the manager level, but the reconcile
// loop's own step 1 re-checks this flag so a follower that raced a stale
// work-queue entry during a leadership handover still backs off cleanly.
var leaderFlag atomic.Bool

// SetLeader is called once this process has won the lease.
func SetLeader(v bool) {
	leaderFlag.Store(v)
}

// IsLeader reports whether this process currently holds the leader lease.
func IsLeader() bool {
	return leaderFlag.Load()
}
