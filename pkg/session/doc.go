/*
Package session implements the session store used by the engine.

A Manager wraps a ports.SessionStore and serializes every operation on a
given session behind a per-session lock. Locks are reference counted and
removed once no caller holds or waits on them, so the lock table only grows
with the number of sessions in flight, not with the number ever created.
When a ports.DistributedLocker is configured the same critical section is
also guarded across replicas.
*/
package session
