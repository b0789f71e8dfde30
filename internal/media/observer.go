package media

// Observer receives progress events from pipeline runs and batch
// commits. Implementations must be fast; events are delivered
// synchronously from the pipeline goroutine.
type Observer interface {
	PipelineStarted(name string, total int)
	ItemUpdated(index int, item Item)
	PipelineFinished(name string, summary string)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) PipelineStarted(string, int)     {}
func (NopObserver) ItemUpdated(int, Item)           {}
func (NopObserver) PipelineFinished(string, string) {}

// ObserverOrNop substitutes a NopObserver for nil so callers never
// check before notifying.
func ObserverOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
