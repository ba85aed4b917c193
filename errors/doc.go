/*
Package errors provides semantic error types for gangwars.

The index engine reports constraint violations as plain booleans; the layers
above it translate those results into the typed errors of this package so
callers can branch with errors.Is or the provided helpers.

Common Errors:

	var (
	    ErrNotFound          = errors.New("record not found")
	    ErrAlreadyExists     = errors.New("record already exists")
	    ErrInvalidInput      = errors.New("invalid input")
	    ErrConditionFailed   = errors.New("condition check failed")
	    ErrInconsistentState = errors.New("inconsistent index state")
	)

Usage:

	g, err := gangs.AddMember(ctx, "red", member)
	if err != nil {
	    if errors.IsAlreadyExists(err) {
	        // member is already in a gang
	    }
	    return err
	}

	err := errors.NewNotFoundError("gang", "red")
	err := errors.NewValidationError("name", "must not be empty")
	err := errors.NewConditionFailedError("rename", "name taken")

ErrInconsistentState is never returned: it is the panic value raised when a
rollback cannot restore a record, which means the indices can no longer be
trusted. BatchError collects the independent failures of a batch load.
*/
package errors
