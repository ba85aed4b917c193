/*
Package index implements an in-memory multi-index transactional set.

A Registry owns an ordered list of indices that are kept in lockstep. Every
mutation runs in two phases: every attached index is asked whether the
operation is legal (CanAdd / CanRemove) and only when all of them agree is the
operation committed to each index (Add / Remove). A rejected operation leaves
every index untouched.

Index Variants:
  - IdentitySet: the canonical membership set, keyed by a record identity
  - UniqueKey: one record per key
  - MultiKey: a record occupies several keys, each key holds one record
  - Grouping: key to the group of records projecting to it

Basic Usage:

	reg := index.NewRegistry[Gang]()
	gangs := index.Attach(reg, index.NewIdentitySet(func(g Gang) string { return g.Name }))
	byName := index.Attach(reg, index.NewUniqueKey(func(g Gang) string { return g.Name }))
	byMember := index.Attach(reg, index.NewMultiKey(func(g Gang) []uuid.UUID { return g.Members }))

	reg.Add(Gang{Name: "red", Members: []uuid.UUID{alice}})

	// Replace the record when legal, otherwise leave everything as it was.
	updated, ok := byName.Update("red", func(g Gang) Gang { return g.WithMember(bob) })

Records are treated as immutable values. A logical update is a remove of the
old value followed by an add of the new one; Update rolls the old value back
in when the new one is rejected by any index.

Key selectors must be pure: a record must project to the same keys every time
it is asked. The registry is not safe for concurrent use; callers serialize
every operation through a single control loop.
*/
package index
