package ports

// Event is the sealed interface for all event types
type Event interface {
	sealed()
}

// StartEvent signals the beginning of a pipeline stage
type StartEvent struct {
	Operation string
}

// UpdateEvent provides status information during a stage
type UpdateEvent struct {
	Operation string
	Message   string
	Data      map[string]any
}

// FinishEvent signals the successful completion of a stage
type FinishEvent struct {
	Operation string
}

// ErrorEvent signals the stage that aborted the run
type ErrorEvent struct {
	Operation string
	Err       error
}

func (StartEvent) sealed()  {}
func (UpdateEvent) sealed() {}
func (FinishEvent) sealed() {}
func (ErrorEvent) sealed()  {}

// SendEvent safely sends an event to the channel if it's not nil
func SendEvent(events chan<- Event, evt Event) {
	if events != nil {
		events <- evt
	}
}
