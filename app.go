/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package gangwars

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Dykam/gangwars/command"
	"github.com/Dykam/gangwars/config"
	"github.com/Dykam/gangwars/datastore"
	"github.com/Dykam/gangwars/errors"
	"github.com/Dykam/gangwars/gang"
	"github.com/Dykam/gangwars/invite"
	"github.com/Dykam/gangwars/player"
	"github.com/Dykam/gangwars/registry"
)

// App ties the gang registry, the invitations, the player directory and the
// commands to one store and one configuration.
//
// An App is not safe for concurrent use. Its owner runs a single control
// loop that calls Dispatch, Tick and Reload in turn.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
	world  int

	store    gangStore
	gangs    *gang.Registry
	invites  *invite.Book
	players  *player.Directory
	handlers *command.Handlers
	commands *command.Dispatcher
}

type appOptions struct {
	logger    *slog.Logger
	now       func() time.Time
	store     gangStore
	messenger command.Messenger
	output    io.Writer
	format    command.Formatter
}

// Option configures an App.
type Option func(*appOptions)

// WithLogger sets the logger of the app and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(o *appOptions) { o.logger = logger }
}

// WithClock sets the wall clock used for invitation expiry.
func WithClock(now func() time.Time) Option {
	return func(o *appOptions) { o.now = now }
}

// WithStore uses store instead of opening the configured backend.
func WithStore(store gangStore) Option {
	return func(o *appOptions) { o.store = store }
}

// WithMessenger delivers chat messages through m.
func WithMessenger(m command.Messenger) Option {
	return func(o *appOptions) { o.messenger = m }
}

// WithOutput prints chat messages to w. It is ignored when a messenger is set.
func WithOutput(w io.Writer) Option {
	return func(o *appOptions) { o.output = w }
}

// WithFormatter sets how chat messages are rendered.
func WithFormatter(f command.Formatter) Option {
	return func(o *appOptions) { o.format = f }
}

// New opens the configured store, loads the gangs and wires the commands.
// Stored gangs that fail validation are skipped with a warning; a store that
// cannot be read at all is an error.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := appOptions{
		logger: NoopLogger(),
		now:    time.Now,
		output: io.Discard,
		format: command.Plain{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		var err error
		store, err = registry.Open(ctx, cfg.Storage.Backend, datastore.Options{
			DataDir:      cfg.Storage.DataDir,
			AWSAccessKey: cfg.Storage.DynamoDB.AccessKey,
			AWSSecretKey: cfg.Storage.DynamoDB.SecretKey,
			AWSRegion:    cfg.Storage.DynamoDB.Region,
			TableName:    cfg.Storage.DynamoDB.Table,
			Endpoint:     cfg.Storage.DynamoDB.Endpoint,
			Logger:       o.logger,
		})
		if err != nil {
			return nil, err
		}
	}

	a := &App{
		cfg:     cfg,
		logger:  o.logger.With("component", "app"),
		now:     o.now,
		store:   store,
		gangs:   gang.NewRegistry(store, gang.WithAutoSave(cfg.AutoSave), gang.WithLogger(o.logger)),
		invites: invite.NewBook(invite.WithTTL(cfg.InvitationTTL()), invite.WithClock(o.now), invite.WithLogger(o.logger)),
		players: player.NewDirectory(),
	}

	if _, err := a.Reload(ctx); err != nil && !isBatch(err) {
		return nil, stderrors.Join(err, store.Close())
	}

	messenger := o.messenger
	if messenger == nil {
		messenger = NewWriterMessenger(o.output, a.players)
	}
	a.handlers = command.NewHandlers(command.Env{
		Gangs:     a.gangs,
		Invites:   a.invites,
		Players:   a.players,
		Messenger: messenger,
		Format:    o.format,
		Config:    a.Config,
		WorldTime: a.WorldTime,
		Reload:    a.Reload,
		Logger:    o.logger,
	})
	a.commands = command.NewDispatcher()
	a.handlers.Register(a.commands)

	return a, nil
}

// Config returns the configuration in effect.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Gangs returns the gang registry.
func (a *App) Gangs() *gang.Registry {
	return a.gangs
}

// Invites returns the open invitations.
func (a *App) Invites() *invite.Book {
	return a.invites
}

// Players returns the player directory.
func (a *App) Players() *player.Directory {
	return a.players
}

// Commands returns the command dispatcher.
func (a *App) Commands() *command.Dispatcher {
	return a.commands
}

// Login registers the player called name and returns it as a command sender.
func (a *App) Login(name string) (command.Sender, error) {
	p, err := a.players.Register(name)
	if err != nil {
		return command.Sender{}, err
	}
	a.logger.Debug("player logged in", "player", p.Name, "id", p.ID)
	return command.Sender{ID: p.ID, Name: p.Name}, nil
}

// Dispatch runs a command line for sender.
func (a *App) Dispatch(ctx context.Context, sender command.Sender, line string) error {
	if !sender.IsConsole() {
		if _, err := a.players.Put(player.Player{ID: sender.ID, Name: sender.Name}); err != nil {
			return err
		}
	}
	err := a.commands.DispatchLine(ctx, sender, line)
	if err != nil && !errors.IsNotFound(err) && !errors.IsValidationError(err) {
		a.logger.Error("command failed", "sender", sender.Name, "line", line, "error", err)
	}
	return err
}

// Tick expires the invitations that are due at now and returns how many
// expired.
func (a *App) Tick(now time.Time) int {
	return a.handlers.ExpireInvites(now)
}

// SetWorldTime sets the world time in ticks.
func (a *App) SetWorldTime(tick int) {
	a.world = ((tick % config.TicksPerDay) + config.TicksPerDay) % config.TicksPerDay
}

// WorldTime returns the world time in ticks.
func (a *App) WorldTime() int {
	return a.world
}

// AtWar reports whether the configured war time is active.
func (a *App) AtWar() bool {
	return a.cfg.PeaceAndWar.WarTime.Active(a.world)
}

// Reload replaces the gangs with the stored ones and returns how many
// loaded. Skipped gangs are reported in an errors.BatchError.
func (a *App) Reload(ctx context.Context) (int, error) {
	n, err := a.gangs.Load(ctx)
	if err != nil && !isBatch(err) {
		a.logger.Error("gangs failed to load", "error", err)
		return n, err
	}
	a.logger.Info("gangs loaded", "count", n)
	return n, err
}

// Watch reports external changes to the store. Stores that cannot be
// watched return a nil channel.
func (a *App) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, ok := a.store.(datastore.Watcher)
	if !ok {
		return nil, nil
	}
	return w.Watch(ctx)
}

// Close saves the gangs and closes the store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.gangs.Save(ctx); err != nil {
		errs = append(errs, fmt.Errorf("save on close: %w", err))
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return stderrors.Join(errs...)
}

func isBatch(err error) bool {
	_, ok := errors.AsBatch(err)
	return ok
}
