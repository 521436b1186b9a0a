package operation

import "sync"

// Callbacks collects the callbacks registered on a batch and notifies them
// of the batch's outcome, in registration order.
type Callbacks struct {
	sync.RWMutex // protect callbacks
	callbacks    []func(error)
}

func NewCallbacks() *Callbacks {
	return &Callbacks{
		callbacks: make([]func(error), 0),
	}
}

func (b *Callbacks) AddCallback(callback func(error)) {
	b.Lock()
	defer b.Unlock()

	b.callbacks = append(b.callbacks, callback)
}

// NotifyCallbacks invokes every callback with err: nil if the batch
// committed, the cause of the failure otherwise.
func (b *Callbacks) NotifyCallbacks(err error) {
	b.RLock()
	defer b.RUnlock()

	for _, callback := range b.callbacks {
		callback(err)
	}
}
