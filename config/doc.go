/*
Package config loads the gangwars configuration.

Values come from three layers, later layers winning:
  - the defaults returned by Default
  - a YAML file (written with the defaults when missing)
  - environment variables, optionally loaded from a .env file by LoadEnv

Example file:

	power-levels:
	  gain-on-kill:
	    constant: 1
	    fraction-of-enemy: 0.1
	  loss:
	    fraction: 0.5
	    each: real-week
	peace-and-war:
	  war-time:
	    start: sunset
	    end: "06:30"
	    disable-leave-join-gang: true
	storage:
	  backend: sqlite
	  data-dir: /var/lib/gangwars

War time moments are named (day, noon, sunset, night, midnight, sunrise),
HH:MM clock times or raw world ticks. Every loaded config is validated with
go-playground/validator; rejected fields are reported as errors.ValidationError.
*/
package config
