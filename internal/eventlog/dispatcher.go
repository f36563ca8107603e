package eventlog

import "errors"

// Sink receives dispatched events.
type Sink interface {
	Emit(event Event)
}

// Closer is implemented by sinks holding resources that must be released.
type Closer interface {
	Close() error
}

// Dispatcher forwards every event to each registered sink in registration order.
type Dispatcher struct {
	sinks []Sink
}

// NewDispatcher constructs a Dispatcher, ignoring nil sinks.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	dispatcher := &Dispatcher{}
	for _, sink := range sinks {
		dispatcher.AddSink(sink)
	}
	return dispatcher
}

// AddSink registers an additional sink.
func (dispatcher *Dispatcher) AddSink(sink Sink) {
	if dispatcher == nil || sink == nil {
		return
	}
	dispatcher.sinks = append(dispatcher.sinks, sink)
}

// Emit forwards the event to every sink.
func (dispatcher *Dispatcher) Emit(event Event) {
	if dispatcher == nil {
		return
	}
	for _, sink := range dispatcher.sinks {
		sink.Emit(event)
	}
}

// Info emits an informational event.
func (dispatcher *Dispatcher) Info(message string, fields ...Field) {
	dispatcher.Emit(Event{Level: LevelInfo, Message: message, Fields: fields})
}

// Success emits an event describing a completed mutation.
func (dispatcher *Dispatcher) Success(message string, fields ...Field) {
	dispatcher.Emit(Event{Level: LevelSuccess, Message: message, Fields: fields})
}

// Warning emits a non-fatal problem.
func (dispatcher *Dispatcher) Warning(message string, fields ...Field) {
	dispatcher.Emit(Event{Level: LevelWarning, Message: message, Fields: fields})
}

// Error emits a failure.
func (dispatcher *Dispatcher) Error(message string, fields ...Field) {
	dispatcher.Emit(Event{Level: LevelError, Message: message, Fields: fields})
}

// Close releases every sink implementing Closer and joins their errors.
func (dispatcher *Dispatcher) Close() error {
	if dispatcher == nil {
		return nil
	}
	var closeErrors []error
	for _, sink := range dispatcher.sinks {
		closer, closable := sink.(Closer)
		if !closable {
			continue
		}
		if closeError := closer.Close(); closeError != nil {
			closeErrors = append(closeErrors, closeError)
		}
	}
	return errors.Join(closeErrors...)
}
