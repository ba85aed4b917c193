/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gang

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Dykam/gangwars/config"
	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/index"
	"github.com/Dykam/gangwars/storagemodels"
)

// Registry holds every gang, indexed by name and by member, and persists
// them through a datastore.
//
// A Registry is not safe for concurrent use; callers serialize access.
type Registry struct {
	store    datastore.DataStore[storagemodels.StoredGang]
	logger   *slog.Logger
	autoSave bool

	set      *index.Registry[Gang]
	gangs    *index.IdentitySet[Gang, string]
	byName   *index.UniqueKey[Gang, string]
	byMember *index.MultiKey[Gang, uuid.UUID]
}

// Option configures a Registry.
type Option func(*Registry)

// WithAutoSave saves the registry after every successful mutation.
func WithAutoSave(enabled bool) Option {
	return func(r *Registry) { r.autoSave = enabled }
}

// WithLogger sets the logger of the registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates an empty registry backed by store.
func NewRegistry(store datastore.DataStore[storagemodels.StoredGang], opts ...Option) *Registry {
	set := index.NewRegistry[Gang]()
	r := &Registry{
		store:    store,
		logger:   slog.New(slog.DiscardHandler),
		set:      set,
		gangs:    index.Attach(set, index.NewIdentitySet(func(g Gang) string { return g.Name }, index.WithEqual(Gang.Equal))),
		byName:   index.Attach(set, index.NewUniqueKey(func(g Gang) string { return g.Name })),
		byMember: index.Attach(set, index.NewMultiKey(func(g Gang) []uuid.UUID { return g.Members })),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "gang_registry")
	return r
}

// Load replaces the registry contents with the stored snapshot and returns
// the number of gangs loaded. When the store cannot be read the registry is
// left untouched. Records the store could not decode, records that fail
// validation and records that clash with one loaded before them are skipped and reported together in an
// errors.BatchError next to the count of gangs that did load.
func (r *Registry) Load(ctx context.Context) (int, error) {
	start := time.Now()

	var rejected []error
	stored, err := r.store.Load(ctx)
	if batch, ok := errors.AsBatch(err); ok {
		rejected = append(rejected, batch.Errors...)
	} else if err != nil {
		recordOperation(ctx, "load", time.Since(start), false)
		return 0, fmt.Errorf("failed to load gangs: %w", err)
	}

	gangs := make([]Gang, 0, len(stored))
	for _, s := range stored {
		g, err := FromStored(s)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		gangs = append(gangs, g)
	}

	r.set.Clear()
	for _, g := range gangs {
		if r.set.Add(g) {
			continue
		}
		if r.byName.Contains(g.Name) {
			rejected = append(rejected, errors.NewAlreadyExistsError("gang", g.Name))
		} else {
			rejected = append(rejected, errors.NewConditionFailedError("load", fmt.Sprintf("gang %q shares a member with another gang", g.Name)))
		}
	}

	loaded := r.set.Len()
	recordOperation(ctx, "load", time.Since(start), len(rejected) == 0)
	r.recordSize(ctx)
	r.logger.Info("loaded gangs", "count", loaded, "rejected", len(rejected))

	if len(rejected) > 0 {
		for _, err := range rejected {
			r.logger.Warn("skipped stored gang", "error", err)
		}
		return loaded, &errors.BatchError{Errors: rejected}
	}
	return loaded, nil
}

// Save writes every gang to the store.
func (r *Registry) Save(ctx context.Context) error {
	start := time.Now()

	snapshot := make([]storagemodels.StoredGang, 0, r.gangs.Len())
	for g := range r.gangs.All() {
		snapshot = append(snapshot, g.ToStored())
	}

	if err := r.store.Save(ctx, snapshot); err != nil {
		recordOperation(ctx, "save", time.Since(start), false)
		return fmt.Errorf("failed to save gangs: %w", err)
	}
	recordOperation(ctx, "save", time.Since(start), true)
	return nil
}

// autoSaveAfter persists the registry after a successful mutation. The
// mutation stands even when the store rejects the write.
func (r *Registry) autoSaveAfter(ctx context.Context, op string) {
	r.recordSize(ctx)
	if !r.autoSave {
		return
	}
	if err := r.Save(ctx); err != nil {
		r.logger.Error("auto-save failed", "operation", op, "error", err)
	}
}

// Len returns the number of gangs.
func (r *Registry) Len() int {
	return r.set.Len()
}

// List returns every gang, least recently changed first.
func (r *Registry) List() []Gang {
	out := make([]Gang, 0, r.gangs.Len())
	for g := range r.gangs.All() {
		out = append(out, g.Clone())
	}
	return out
}

// All iterates over every gang, least recently changed first. The registry
// must not be mutated while iterating.
func (r *Registry) All() iter.Seq[Gang] {
	return func(yield func(Gang) bool) {
		for g := range r.gangs.All() {
			if !yield(g.Clone()) {
				return
			}
		}
	}
}

// Get returns the gang called name.
func (r *Registry) Get(name string) (Gang, bool) {
	g, ok := r.byName.Get(name)
	return g.Clone(), ok
}

// ForMember returns the gang id belongs to.
func (r *Registry) ForMember(id uuid.UUID) (Gang, bool) {
	g, ok := r.byMember.Get(id)
	return g.Clone(), ok
}

// Create adds an empty gang.
func (r *Registry) Create(ctx context.Context, name string) (Gang, error) {
	start := time.Now()

	if !storagemodels.ValidGangName(name) {
		recordOperation(ctx, "create", time.Since(start), false)
		return Gang{}, errors.NewValidationError("name", fmt.Sprintf("%q must be 1-32 letters, digits, '_' or '-'", name))
	}

	g := Gang{Name: name}
	if !r.set.Add(g) {
		recordOperation(ctx, "create", time.Since(start), false)
		return Gang{}, errors.NewAlreadyExistsError("gang", name)
	}

	recordOperation(ctx, "create", time.Since(start), true)
	r.logger.Debug("created gang", "gang", name)
	r.autoSaveAfter(ctx, "create")
	return g, nil
}

// Disband removes the gang called name and returns it.
func (r *Registry) Disband(ctx context.Context, name string) (Gang, error) {
	start := time.Now()

	g, ok := r.byName.Get(name)
	if !ok || !r.set.Remove(g) {
		recordOperation(ctx, "disband", time.Since(start), false)
		return Gang{}, errors.NewNotFoundError("gang", name)
	}

	recordOperation(ctx, "disband", time.Since(start), true)
	r.logger.Debug("disbanded gang", "gang", name, "members", len(g.Members))
	r.autoSaveAfter(ctx, "disband")
	return g.Clone(), nil
}

// AddMember appends id to the members of the gang called name. It fails
// with a *MemberInGangError when id already belongs to a gang.
func (r *Registry) AddMember(ctx context.Context, name string, id uuid.UUID) (Gang, error) {
	start := time.Now()

	if existing, ok := r.byMember.Get(id); ok {
		recordOperation(ctx, "add_member", time.Since(start), false)
		return Gang{}, &MemberInGangError{Member: id, Gang: existing.Clone()}
	}
	if !r.byName.Contains(name) {
		recordOperation(ctx, "add_member", time.Since(start), false)
		return Gang{}, errors.NewNotFoundError("gang", name)
	}

	updated, ok := r.byName.Update(name, func(g Gang) Gang { return g.withMember(id) })
	if !ok {
		recordOperation(ctx, "add_member", time.Since(start), false)
		return Gang{}, errors.NewConditionFailedError("add member", fmt.Sprintf("gang %q rejected member %s", name, id))
	}

	recordOperation(ctx, "add_member", time.Since(start), true)
	r.logger.Debug("added member", "gang", name, "member", id)
	r.autoSaveAfter(ctx, "add_member")
	return updated.Clone(), nil
}

// RemoveMember removes id from its gang and returns the updated gang. A gang
// left without members is kept.
func (r *Registry) RemoveMember(ctx context.Context, id uuid.UUID) (Gang, error) {
	start := time.Now()

	if !r.byMember.Contains(id) {
		recordOperation(ctx, "remove_member", time.Since(start), false)
		return Gang{}, errors.NewNotFoundError("member", id.String())
	}

	updated, ok := r.byMember.Update(id, func(g Gang) Gang { return g.withoutMember(id) })
	if !ok {
		recordOperation(ctx, "remove_member", time.Since(start), false)
		return Gang{}, errors.NewConditionFailedError("remove member", fmt.Sprintf("member %s could not be removed", id))
	}

	recordOperation(ctx, "remove_member", time.Since(start), true)
	r.logger.Debug("removed member", "gang", updated.Name, "member", id)
	r.autoSaveAfter(ctx, "remove_member")
	return updated.Clone(), nil
}

// Rename gives the gang called from the name to. The gang keeps its members
// and power level.
func (r *Registry) Rename(ctx context.Context, from, to string) (Gang, error) {
	start := time.Now()

	if !storagemodels.ValidGangName(to) {
		recordOperation(ctx, "rename", time.Since(start), false)
		return Gang{}, errors.NewValidationError("name", fmt.Sprintf("%q must be 1-32 letters, digits, '_' or '-'", to))
	}
	if !r.byName.Contains(from) {
		recordOperation(ctx, "rename", time.Since(start), false)
		return Gang{}, errors.NewNotFoundError("gang", from)
	}

	updated, ok := r.byName.Update(from, func(g Gang) Gang { return g.renamed(to) })
	if !ok {
		recordOperation(ctx, "rename", time.Since(start), false)
		return Gang{}, errors.NewAlreadyExistsError("gang", to)
	}

	recordOperation(ctx, "rename", time.Since(start), true)
	r.logger.Debug("renamed gang", "from", from, "to", to)
	r.autoSaveAfter(ctx, "rename")
	return updated.Clone(), nil
}

// RecordKill credits the killer's gang with power for killing victim:
// gain.Constant plus gain.FractionOfEnemy of the victim gang's power. Kills
// of players outside any gang only earn the constant; kills inside the
// killer's own gang earn nothing. It returns the killer's updated gang and
// the power gained.
func (r *Registry) RecordKill(ctx context.Context, killer, victim uuid.UUID, gain config.GainOnKill) (Gang, float32, error) {
	start := time.Now()

	own, ok := r.byMember.Get(killer)
	if !ok {
		recordOperation(ctx, "record_kill", time.Since(start), false)
		return Gang{}, 0, errors.NewNotFoundError("member", killer.String())
	}
	if own.HasMember(victim) {
		recordOperation(ctx, "record_kill", time.Since(start), true)
		return own.Clone(), 0, nil
	}

	delta := gain.Constant
	if enemy, ok := r.byMember.Get(victim); ok {
		delta += gain.FractionOfEnemy * enemy.PowerLevel
	}

	updated, ok := r.byMember.Update(killer, func(g Gang) Gang { return g.withPower(g.PowerLevel + delta) })
	if !ok {
		recordOperation(ctx, "record_kill", time.Since(start), false)
		return Gang{}, 0, errors.NewConditionFailedError("record kill", fmt.Sprintf("gang %q could not be updated", own.Name))
	}

	recordOperation(ctx, "record_kill", time.Since(start), true)
	r.logger.Debug("recorded kill", "gang", updated.Name, "gain", delta, "power", updated.PowerLevel)
	r.autoSaveAfter(ctx, "record_kill")
	return updated.Clone(), delta, nil
}

func (r *Registry) recordSize(ctx context.Context) {
	recordGangCount(ctx, r.set.Len(), r.byMember.Len())
}
