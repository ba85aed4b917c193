/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package index

import (
	"reflect"
	"slices"
	"sort"
	"testing"

	"github.com/Dykam/gangwars/errors"
)

type crew struct {
	Name    string
	Members []string
}

func (c crew) withMember(m string) crew {
	return crew{Name: c.Name, Members: append(slices.Clone(c.Members), m)}
}

func (c crew) renamed(name string) crew {
	return crew{Name: name, Members: slices.Clone(c.Members)}
}

type crewIndices struct {
	reg      *Registry[crew]
	set      *IdentitySet[crew, string]
	byName   *UniqueKey[crew, string]
	byMember *MultiKey[crew, string]
}

func newCrewIndices() crewIndices {
	reg := NewRegistry[crew]()
	return crewIndices{
		reg:      reg,
		set:      Attach(reg, NewIdentitySet(func(c crew) string { return c.Name })),
		byName:   Attach(reg, NewUniqueKey(func(c crew) string { return c.Name })),
		byMember: Attach(reg, NewMultiKey(func(c crew) []string { return c.Members })),
	}
}

// crewSnapshot captures the contents of every index, Set in iteration order.
type crewSnapshot struct {
	Set      []crew
	ByName   map[string]crew
	ByMember map[string]crew
}

func (ci crewIndices) snapshot() crewSnapshot {
	s := crewSnapshot{
		Set:      ci.set.Slice(),
		ByName:   make(map[string]crew),
		ByMember: make(map[string]crew),
	}
	for _, k := range ci.byName.Keys() {
		s.ByName[k], _ = ci.byName.Get(k)
	}
	for _, k := range ci.byMember.Keys() {
		s.ByMember[k], _ = ci.byMember.Get(k)
	}
	return s
}

// assertAgreement checks that every index holds exactly the members of the
// identity set under all of their keys.
func (ci crewIndices) assertAgreement(t *testing.T) {
	t.Helper()

	members := ci.set.Slice()
	if ci.reg.Len() != len(members) {
		t.Fatalf("registry reports %d records, set holds %d", ci.reg.Len(), len(members))
	}
	if ci.byName.Len() != len(members) {
		t.Fatalf("byName holds %d keys, set holds %d records", ci.byName.Len(), len(members))
	}

	memberKeys := 0
	for _, c := range members {
		got, ok := ci.byName.Get(c.Name)
		if !ok || !reflect.DeepEqual(got, c) {
			t.Fatalf("byName[%q] = %+v, %v; want %+v", c.Name, got, ok, c)
		}
		for _, m := range c.Members {
			got, ok := ci.byMember.Get(m)
			if !ok || !reflect.DeepEqual(got, c) {
				t.Fatalf("byMember[%q] = %+v, %v; want %+v", m, got, ok, c)
			}
		}
		memberKeys += len(c.Members)
	}
	if ci.byMember.Len() != memberKeys {
		t.Fatalf("byMember holds %d keys, want %d", ci.byMember.Len(), memberKeys)
	}
}

func TestRegistryScenario(t *testing.T) {
	ci := newCrewIndices()

	red := crew{Name: "red", Members: []string{"A"}}
	if !ci.reg.Add(red) {
		t.Fatal("first red should be added")
	}

	if ci.reg.Add(crew{Name: "red", Members: []string{"B"}}) {
		t.Fatal("second red should collide on name")
	}
	if ci.byMember.Contains("B") {
		t.Error("member B must not be indexed after a rejected add")
	}
	if got, _ := ci.byName.Get("red"); !reflect.DeepEqual(got, red) {
		t.Errorf("red changed after rejected add: %+v", got)
	}
	ci.assertAgreement(t)

	updated, ok := ci.byName.Update("red", func(c crew) crew { return c.withMember("B") })
	if !ok {
		t.Fatal("adding member B should succeed")
	}
	want := crew{Name: "red", Members: []string{"A", "B"}}
	if !reflect.DeepEqual(updated, want) {
		t.Errorf("Update returned %+v, want %+v", updated, want)
	}
	for _, m := range []string{"A", "B"} {
		if got, _ := ci.byMember.Get(m); !reflect.DeepEqual(got, want) {
			t.Errorf("member %s resolves to %+v, want %+v", m, got, want)
		}
	}
	ci.assertAgreement(t)

	if !ci.reg.Add(crew{Name: "blue", Members: []string{"C"}}) {
		t.Fatal("blue should be added")
	}

	before := ci.snapshot()
	if _, ok := ci.byName.Update("red", func(c crew) crew { return c.renamed("blue") }); ok {
		t.Fatal("renaming red to blue should fail")
	}
	if after := ci.snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after rolled back update:\nbefore %+v\nafter  %+v", before, after)
	}
	for _, m := range []string{"A", "B"} {
		if got, _ := ci.byMember.Get(m); got.Name != "red" {
			t.Errorf("member %s resolves to %q, want red", m, got.Name)
		}
	}
	ci.assertAgreement(t)
}

func TestRolledBackUpdateKeepsOrder(t *testing.T) {
	ci := newCrewIndices()
	ci.reg.AddAll(
		crew{Name: "red", Members: []string{"A"}},
		crew{Name: "blue", Members: []string{"B"}},
		crew{Name: "green", Members: []string{"C"}},
	)
	want := ci.set.Slice()

	if _, ok := ci.byName.Update("red", func(c crew) crew { return c.renamed("blue") }); ok {
		t.Fatal("renaming red to blue should fail")
	}
	if _, ok := ci.byMember.Update("B", func(c crew) crew { return c.withMember("C") }); ok {
		t.Fatal("taking member C from green should fail")
	}
	if got := ci.set.Slice(); !reflect.DeepEqual(got, want) {
		t.Errorf("order changed after rolled back updates:\ngot  %+v\nwant %+v", got, want)
	}

	if _, ok := ci.byName.Update("red", func(c crew) crew { return c.withMember("D") }); !ok {
		t.Fatal("adding member D should succeed")
	}
	names := make([]string, 0, 3)
	for c := range ci.set.All() {
		names = append(names, c.Name)
	}
	if !reflect.DeepEqual(names, []string{"blue", "green", "red"}) {
		t.Errorf("a committed update should move red to the end, got %v", names)
	}
}

func TestRolledBackUpdateKeepsGroupOrder(t *testing.T) {
	type tag struct {
		Owner string
		Label string
	}

	reg := NewRegistry[tag]()
	Attach(reg, NewIdentitySet(func(x tag) tag { return x }))
	byLabel := Attach(reg, NewUniqueKey(func(x tag) string { return x.Label }))
	byOwner := Attach(reg, NewGrouping(func(x tag) string { return x.Owner }))

	reg.AddAll(
		tag{Owner: "red", Label: "one"},
		tag{Owner: "red", Label: "two"},
		tag{Owner: "red", Label: "three"},
	)
	want := byOwner.Get("red")

	if _, ok := byLabel.Update("one", func(x tag) tag { return tag{Owner: x.Owner, Label: "two"} }); ok {
		t.Fatal("relabelling one to two should fail")
	}
	if got := byOwner.Get("red"); !reflect.DeepEqual(got, want) {
		t.Errorf("group order changed after rolled back update:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestRegistryAddAtomicity(t *testing.T) {
	tests := []struct {
		name      string
		colliding crew
	}{
		{name: "name collision", colliding: crew{Name: "red", Members: []string{"Z"}}},
		{name: "member collision", colliding: crew{Name: "green", Members: []string{"Y", "B"}}},
		{name: "member repeated in record", colliding: crew{Name: "green", Members: []string{"Y", "Y"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := newCrewIndices()
			ci.reg.AddAll(
				crew{Name: "red", Members: []string{"A"}},
				crew{Name: "blue", Members: []string{"B", "C"}},
			)

			before := ci.snapshot()
			if ci.reg.Add(tt.colliding) {
				t.Fatalf("Add(%+v) should fail", tt.colliding)
			}
			if after := ci.snapshot(); !reflect.DeepEqual(before, after) {
				t.Errorf("state changed after rejected add:\nbefore %+v\nafter  %+v", before, after)
			}
			ci.assertAgreement(t)
		})
	}
}

func TestRegistryRemove(t *testing.T) {
	t.Run("present record", func(t *testing.T) {
		ci := newCrewIndices()
		red := crew{Name: "red", Members: []string{"A", "B"}}
		ci.reg.Add(red)

		if !ci.reg.Remove(red) {
			t.Fatal("Remove should succeed")
		}
		if ci.set.Len() != 0 || ci.byName.Len() != 0 || ci.byMember.Len() != 0 {
			t.Errorf("indices not empty after remove: %+v", ci.snapshot())
		}
		ci.assertAgreement(t)
	})

	t.Run("absent record", func(t *testing.T) {
		ci := newCrewIndices()
		ci.reg.Add(crew{Name: "red", Members: []string{"A"}})

		before := ci.snapshot()
		if ci.reg.Remove(crew{Name: "blue"}) {
			t.Fatal("Remove of an absent record should fail")
		}
		if after := ci.snapshot(); !reflect.DeepEqual(before, after) {
			t.Errorf("state changed after rejected remove")
		}
	})

	t.Run("stale record", func(t *testing.T) {
		ci := newCrewIndices()
		stale := crew{Name: "red", Members: []string{"A"}}
		ci.reg.Add(stale)
		if _, ok := ci.byName.Update("red", func(c crew) crew { return c.withMember("B") }); !ok {
			t.Fatal("Update should succeed")
		}

		before := ci.snapshot()
		if ci.reg.Remove(stale) {
			t.Fatal("Remove of a superseded record should fail")
		}
		if after := ci.snapshot(); !reflect.DeepEqual(before, after) {
			t.Errorf("state changed after rejected remove")
		}
		ci.assertAgreement(t)
	})
}

func TestRegistryBatch(t *testing.T) {
	ci := newCrewIndices()

	if !ci.reg.AddAll(
		crew{Name: "red", Members: []string{"A"}},
		crew{Name: "red", Members: []string{"B"}},
		crew{Name: "blue", Members: []string{"A"}},
	) {
		t.Fatal("AddAll should report success when any record was added")
	}
	if ci.reg.Len() != 1 {
		t.Errorf("expected 1 record, got %d", ci.reg.Len())
	}

	if ci.reg.AddAll(crew{Name: "red"}, crew{Name: "green", Members: []string{"A"}}) {
		t.Error("AddAll should report failure when every record was rejected")
	}

	if !ci.reg.RemoveAll(crew{Name: "ghost"}, crew{Name: "red", Members: []string{"A"}}) {
		t.Error("RemoveAll should report success when any record was removed")
	}
	if ci.reg.RemoveAll(crew{Name: "red", Members: []string{"A"}}) {
		t.Error("RemoveAll should report failure when nothing was removed")
	}
	ci.assertAgreement(t)
}

func TestRegistryClear(t *testing.T) {
	ci := newCrewIndices()
	ci.reg.AddAll(
		crew{Name: "red", Members: []string{"A"}},
		crew{Name: "blue", Members: []string{"B"}},
	)

	ci.reg.Clear()
	once := ci.snapshot()
	ci.reg.Clear()
	twice := ci.snapshot()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second clear changed state: %+v vs %+v", once, twice)
	}
	if ci.reg.Len() != 0 || ci.set.Len() != 0 || ci.byName.Len() != 0 || ci.byMember.Len() != 0 {
		t.Errorf("indices not empty after clear: %+v", twice)
	}

	if !ci.reg.Add(crew{Name: "red", Members: []string{"A"}}) {
		t.Error("records should be accepted again after clear")
	}
}

func TestUpdateMissingKey(t *testing.T) {
	ci := newCrewIndices()
	called := false

	_, ok := ci.byName.Update("red", func(c crew) crew {
		called = true
		return c
	})
	if ok {
		t.Error("Update of a missing key should fail")
	}
	if called {
		t.Error("transform must not run for a missing key")
	}
}

func TestMultiKeyUpdate(t *testing.T) {
	ci := newCrewIndices()
	ci.reg.AddAll(
		crew{Name: "red", Members: []string{"A", "B"}},
		crew{Name: "blue", Members: []string{"C"}},
	)

	updated, ok := ci.byMember.Update("B", func(c crew) crew {
		return crew{Name: c.Name, Members: slices.DeleteFunc(slices.Clone(c.Members), func(m string) bool { return m == "B" })}
	})
	if !ok {
		t.Fatal("removing member B should succeed")
	}
	if !reflect.DeepEqual(updated.Members, []string{"A"}) {
		t.Errorf("unexpected members %v", updated.Members)
	}
	if ci.byMember.Contains("B") {
		t.Error("B should no longer be indexed")
	}

	before := ci.snapshot()
	if _, ok := ci.byMember.Update("A", func(c crew) crew { return c.withMember("C") }); ok {
		t.Fatal("taking member C from blue should fail")
	}
	if after := ci.snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("state changed after rolled back update")
	}
	ci.assertAgreement(t)
}

func TestIdentitySetOrder(t *testing.T) {
	set := NewSet[string]()
	reg := NewRegistry[string]()
	Attach(reg, set)

	reg.AddAll("c", "a", "b", "d")
	reg.Remove("a")
	reg.Add("a")

	got := slices.Collect(set.All())
	want := []string{"c", "b", "d", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("iteration order %v, want %v", got, want)
	}

	for i, v := range want {
		if id, ok := set.Get(v); !ok || id != v {
			t.Errorf("Get(%q) = %q, %v", v, id, ok)
		}
		if !set.Contains(v) {
			t.Errorf("set should contain %q (position %d)", v, i)
		}
	}
	if reg.Add("b") {
		t.Error("duplicate member should be rejected")
	}
}

func TestGrouping(t *testing.T) {
	type tag struct {
		Owner string
		Label string
	}

	reg := NewRegistry[tag]()
	set := Attach(reg, NewIdentitySet(func(x tag) tag { return x }))
	byOwner := Attach(reg, NewGrouping(func(x tag) string { return x.Owner }))

	reg.AddAll(
		tag{Owner: "red", Label: "one"},
		tag{Owner: "red", Label: "two"},
		tag{Owner: "blue", Label: "one"},
	)

	if got := byOwner.Get("red"); len(got) != 2 {
		t.Fatalf("red group has %d records, want 2", len(got))
	}
	keys := byOwner.Keys()
	sort.Strings(keys)
	if !reflect.DeepEqual(keys, []string{"blue", "red"}) {
		t.Errorf("unexpected keys %v", keys)
	}

	if reg.Remove(tag{Owner: "red", Label: "three"}) {
		t.Error("removing an ungrouped record should fail")
	}

	reg.Remove(tag{Owner: "blue", Label: "one"})
	if byOwner.Contains("blue") {
		t.Error("empty group should be dropped")
	}
	if byOwner.Len() != 1 || set.Len() != 2 {
		t.Errorf("unexpected sizes: groups=%d set=%d", byOwner.Len(), set.Len())
	}

	group := byOwner.Get("red")
	group[0] = tag{Owner: "red", Label: "mutated"}
	if byOwner.Get("red")[0].Label != "one" {
		t.Error("Get must return a copy of the group")
	}
}

// recordingIndex records the calls made by the registry.
type recordingIndex struct {
	calls []string
}

func (r *recordingIndex) CanAdd(v string) bool {
	r.calls = append(r.calls, "canAdd "+v)
	return true
}

func (r *recordingIndex) Add(v string) { r.calls = append(r.calls, "add "+v) }

func (r *recordingIndex) CanRemove(v string) bool {
	r.calls = append(r.calls, "canRemove "+v)
	return true
}

func (r *recordingIndex) Remove(v string) { r.calls = append(r.calls, "remove "+v) }
func (r *recordingIndex) Clear()          { r.calls = append(r.calls, "clear") }

func TestRegistryValidatesBeforeCommit(t *testing.T) {
	reg := NewRegistry[string]()
	rec := Attach(reg, &recordingIndex{})
	Attach(reg, NewSet[string]())

	reg.Add("a")
	reg.Add("a")
	reg.Remove("b")
	reg.Clear()

	want := []string{
		"canAdd a", "add a",
		"canAdd a",
		"canRemove b",
		"clear",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls %v, want %v", rec.calls, want)
	}
}

// flakyIndex starts rejecting every add once a record was removed.
type flakyIndex struct {
	broken bool
}

func (f *flakyIndex) CanAdd(string) bool    { return !f.broken }
func (f *flakyIndex) Add(string)            {}
func (f *flakyIndex) CanRemove(string) bool { return true }
func (f *flakyIndex) Remove(string)         { f.broken = true }
func (f *flakyIndex) Clear()                {}

func TestReplacePanicsWhenRollbackFails(t *testing.T) {
	reg := NewRegistry[string]()
	Attach(reg, NewSet[string]())
	Attach(reg, &flakyIndex{})
	reg.Add("a")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		err, ok := r.(error)
		if !ok || !errors.IsInconsistentState(err) {
			t.Fatalf("expected an inconsistent state error, got %v", r)
		}
	}()
	reg.Replace("a", "b")
}

func TestAttachAfterPopulationPanics(t *testing.T) {
	reg := NewRegistry[string]()
	Attach(reg, NewSet[string]())
	reg.Add("a")

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	Attach(reg, NewUniqueKey(func(s string) string { return s }))
}
