package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStatus forwards the snapshot to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordStatus(ev StatusEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordStatus(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordCommand forwards command events to sinks that support them.
func (m *MultiSink) RecordCommand(ev CommandEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CommandRecorder); ok {
			if err := rec.RecordCommand(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordConnectivity forwards reachability transitions to sinks that support
// them.
func (m *MultiSink) RecordConnectivity(ev ConnectivityEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ConnectivityRecorder); ok {
			if err := rec.RecordConnectivity(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
