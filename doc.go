/*
Package gangwars runs the gang wars game mode: players form gangs, invite and
kick members, and gain power by killing members of other gangs.

The state lives in three in-memory sets, each a multi-index registry from
package index whose views can never disagree:
  - gangs, indexed by name and by member (package gang)
  - open invitations, indexed by gang and member (package invite)
  - known players, indexed by UUID and name (package player)

Gangs are persisted through a pluggable backend chosen by the storage.backend
setting: "yaml" (gangs.yml, watched for edits), "sqlite", "dynamodb" or
"memory".

Basic Usage:

	cfg, err := config.Load("config.yml")
	if err != nil {
	    return err
	}

	app, err := gangwars.New(ctx, cfg,
	    gangwars.WithLogger(gangwars.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)),
	    gangwars.WithOutput(os.Stdout),
	)
	if err != nil {
	    return err
	}
	defer app.Close(ctx)

	alice, _ := app.Login("alice")
	app.Dispatch(ctx, alice, "gang-create red")

	// From the control loop:
	app.Tick(time.Now())     // expire invitations
	app.SetWorldTime(13000)  // war time starts at sunset by default

An App is driven by a single control loop; see cmd/gangwars for the shell
that reads commands from stdin.
*/
package gangwars
