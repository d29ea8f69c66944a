/*
Package config loads optional typebus settings from YAML or JSON.

A Bus needs no configuration. When an application keeps its settings in a
file, the bus section can be read with this package and turned into
options with typebus.OptionsFromConfig:

	# app.yaml
	typebus:
	  name: orders
	  metrics: true
	  tracing: true
	  handler_events: false

	cfg, err := config.FromFile("app.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	bus := typebus.New(typebus.OptionsFromConfig(cfg.Section("typebus"))...)

The document root must be a mapping. A scalar or list root fails with an
error wrapping ErrNotMapping. Errors from FromFile name the file path.

Accessors never fail. A missing key or a value of the wrong type yields
the default passed by the caller.

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
