/*
Package ports defines the driven ports (interfaces) for the Narrator engine.

These interfaces decouple the session lifecycle from the storage backend, so the
same engine runs against process memory, local files or Redis.

# Key Interfaces

  - SessionStore: Responsible for persisting and loading Session state.
  - DistributedLocker: Provides distributed locking for handling concurrent session access across replicas.
*/
package ports
