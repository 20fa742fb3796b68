package mqtt

import "github.com/xeniter/romygo/core/model"

// Publisher mirrors robot state to an external MQTT broker.
type Publisher interface {
	// PublishStatus publishes a retained snapshot of the robot state.
	PublishStatus(st model.Status) error

	// PublishEvent publishes one robot event. The event name matches the
	// run history vocabulary, payload is the event struct.
	PublishEvent(event string, payload any) error

	// PublishAvailability publishes the retained online/offline marker.
	PublishAvailability(online bool) error

	// Close announces the robot offline and disconnects from the broker.
	Close()
}
