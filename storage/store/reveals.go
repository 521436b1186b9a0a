package store

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

type Reveals struct{}

var _ storage.Reveals = (*Reveals)(nil)

func NewReveals() *Reveals {
	return &Reveals{}
}

func (rs *Reveals) ByEpochOracle(r storage.Reader, epoch uint64, oracle drops.Name) (*drops.Reveal, error) {
	var reveal drops.Reveal
	err := operation.LookupReveal(r, epoch, oracle, &reveal)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve reveal of %s for epoch %d: %w", oracle, epoch, err)
	}
	return &reveal, nil
}

func (rs *Reveals) ByEpoch(r storage.Reader, epoch uint64) ([]*drops.Reveal, error) {
	var reveals []*drops.Reveal
	err := operation.RetrieveReveals(r, epoch, &reveals)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve reveals for epoch %d: %w", epoch, err)
	}
	return reveals, nil
}

func (rs *Reveals) Exists(r storage.Reader, epoch uint64, oracle drops.Name) (bool, error) {
	return operation.RevealExists(r, epoch, oracle)
}

func (rs *Reveals) Count(r storage.Reader, epoch uint64) (uint, error) {
	return operation.CountReveals(r, epoch)
}

func (rs *Reveals) BatchStore(rw storage.ReaderBatchWriter, reveal *drops.Reveal) error {
	return operation.InsertReveal(rw, reveal)
}

func (rs *Reveals) BatchRemove(rw storage.ReaderBatchWriter, epoch uint64, oracle drops.Name) error {
	return operation.RemoveReveal(rw, epoch, oracle)
}

func (rs *Reveals) BatchRemoveAll(rw storage.ReaderBatchWriter) error {
	return operation.RemoveAllReveals(rw.Writer())
}
