package store

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

type States struct{}

var _ storage.States = (*States)(nil)

func NewStates() *States {
	return &States{}
}

func (s *States) Retrieve(r storage.Reader) (*drops.State, error) {
	var state drops.State
	err := operation.RetrieveState(r, &state)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve state: %w", err)
	}
	state.Genesis = state.Genesis.UTC()
	return &state, nil
}

func (s *States) BatchStore(rw storage.ReaderBatchWriter, state *drops.State) error {
	return operation.UpsertState(rw.Writer(), state)
}

func (s *States) BatchRemove(rw storage.ReaderBatchWriter) error {
	return operation.RemoveState(rw.Writer())
}
