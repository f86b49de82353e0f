/*
Package session serializes access to games.

Every operation on a game ID runs load, mutate and save under one lock, so two
requests for the same game never interleave while different games proceed in
parallel. A ports.DistributedLocker extends the guarantee across replicas that
share a store.
*/
package session
