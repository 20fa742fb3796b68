// Package infra groups the concrete adapters behind the core interfaces:
// the robot HTTP client, mDNS and subnet-sweep discovery, the status
// watcher, metrics exporters, the MQTT mirror and Sentry error reporting.
package infra
