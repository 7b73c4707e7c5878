/*
Package session implements the session controller: the state machine that moves a player
between the boot, title, playing and ending phases.

The controller owns the traversal state of the single active play session. It consumes
player intents, either one at a time through Dispatch or batched per tick through Enqueue
and Tick, delegates transitions to the scenario engine, auto-saves progress and publishes a
Snapshot after every processed intent.
*/
package session
