/*
Package gang keeps track of gangs and their members.

A Registry holds every Gang in memory, indexed three ways: by identity
(the canonical set, least recently changed first), by name and by member.
A player belongs to at most one gang and gang names are unique; both rules
are enforced by the indices themselves, so a rejected operation leaves
every view intact:

	reg := gang.NewRegistry(store, gang.WithAutoSave(true), gang.WithLogger(logger))
	if _, err := reg.Load(ctx); err != nil {
	    logger.Warn("some gangs were skipped", "error", err)
	}

	reg.Create(ctx, "red")
	reg.AddMember(ctx, "red", playerID)
	reg.Rename(ctx, "red", "blue") // errors.ErrAlreadyExists if "blue" is taken

Errors follow the errors package: ErrNotFound, ErrAlreadyExists (including
*MemberInGangError), ErrInvalidInput for bad names and ErrConditionFailed
when an update is rejected.

With auto-save enabled every successful mutation writes a full snapshot to
the datastore. A failed write is logged; the in-memory change stands.
*/
package gang
