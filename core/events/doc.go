// Package events defines the robot related events emitted on the event bus.
//
// Available event types:
//   - StatusUpdated: full snapshot after a successful refresh
//   - StateChanged: operating mode transition
//   - BatteryChanged: battery level movement
//   - DeviceError: robot fault code raised
//   - ConnectivityChanged: robot lost or regained
//   - CommandIssued: control command sent to the robot
package events
