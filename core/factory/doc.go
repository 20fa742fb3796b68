// Package factory provides a small generic registry for pluggable module
// implementations selected by configuration.
//
// A module config names a type and carries its raw settings:
//
//	sink, err := sinkRegistry.Create(factory.ModuleConfig{
//		Type: "influx",
//		Conf: map[string]any{"url": "http://localhost:8086"},
//	})
//
// Implementations register themselves under a type name, usually from an
// init func, and use Decode to map the raw settings onto their own config
// struct via json tags.
package factory
