package store

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

type Oracles struct{}

var _ storage.Oracles = (*Oracles)(nil)

func NewOracles() *Oracles {
	return &Oracles{}
}

func (o *Oracles) Exists(r storage.Reader, oracle drops.Name) (bool, error) {
	return operation.OracleExists(r, oracle)
}

func (o *Oracles) All(r storage.Reader) (drops.NameList, error) {
	var oracles drops.NameList
	err := operation.RetrieveOracles(r, &oracles)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve oracles: %w", err)
	}
	return oracles, nil
}

func (o *Oracles) BatchInsert(rw storage.ReaderBatchWriter, oracle drops.Name) error {
	return operation.InsertOracle(rw, oracle)
}

func (o *Oracles) BatchRemove(rw storage.ReaderBatchWriter, oracle drops.Name) error {
	exists, err := operation.OracleExists(rw.Reader(), oracle)
	if err != nil {
		return fmt.Errorf("could not check oracle %s: %w", oracle, err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	return operation.RemoveOracle(rw.Writer(), oracle)
}

func (o *Oracles) BatchRemoveAll(rw storage.ReaderBatchWriter) error {
	return operation.RemoveAllOracles(rw.Writer())
}
