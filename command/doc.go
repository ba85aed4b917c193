/*
Package command implements the gang chat commands.

A Dispatcher maps command names to handlers that take a fixed number of
arguments, the way a game server's command map does. Commands marked
PlayerOnly are hidden from the console; the rest can be run by anyone:

	d := command.NewDispatcher()
	command.NewHandlers(command.Env{
	    Gangs:     gangs,
	    Invites:   invites,
	    Players:   players,
	    Messenger: out,
	    Format:    command.NewStyled(os.Stdout),
	}).Register(d)

	err := d.DispatchLine(ctx, sender, "gang-invite bob")

Handlers answer through the Messenger: failures, successes and notices are
rendered by the Formatter with the "[GANGWARS] " prefix. Dispatch itself
only returns errors for unknown commands, wrong argument counts and
failures of the server.

Joining and leaving gangs is refused while the configured war time is
active and the configuration disables it.
*/
package command
