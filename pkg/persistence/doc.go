// Package persistence saves and restores the traversal state of a play session.
//
// A Store wraps any ports.SaveStore, writes records in the current schema version and
// discards records written by other versions instead of failing. A Store that could not be
// initialised degrades to disabled mode, where saving succeeds without doing anything and
// loading always reports that no save is present. Persistence problems never stop play.
package persistence
