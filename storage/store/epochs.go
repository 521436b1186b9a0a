package store

import (
	"fmt"

	"github.com/droplets-system/epoch/model/drops"
	"github.com/droplets-system/epoch/module"
	"github.com/droplets-system/epoch/module/metrics"
	"github.com/droplets-system/epoch/storage"
	"github.com/droplets-system/epoch/storage/operation"
)

// Epochs stores epoch records. Completed epochs never change again, so they
// are cached; open epochs are always read from the database.
type Epochs struct {
	db    storage.DB
	cache *Cache[uint64, *drops.Epoch]
}

var _ storage.Epochs = (*Epochs)(nil)

func NewEpochs(collector module.CacheMetrics, db storage.DB, cacheSize uint) *Epochs {
	retrieve := func(r storage.Reader, height uint64) (*drops.Epoch, error) {
		var epoch drops.Epoch
		err := operation.RetrieveEpoch(r, height, &epoch)
		return &epoch, err
	}

	return &Epochs{
		db: db,
		cache: newCache(collector, metrics.ResourceEpoch,
			withLimit[uint64, *drops.Epoch](cacheSize),
			withRetrieve(retrieve),
			withAdmit[uint64](func(epoch *drops.Epoch) bool { return epoch.Completed })),
	}
}

func (e *Epochs) ByHeight(height uint64) (*drops.Epoch, error) {
	epoch, err := e.cache.Get(e.db.Reader(), height)
	if err != nil {
		return nil, err
	}
	return epoch.Copy(), nil
}

func (e *Epochs) ByHeightTx(r storage.Reader, height uint64) (*drops.Epoch, error) {
	if epoch, cached := e.cache.Peek(height); cached {
		return epoch.Copy(), nil
	}
	var epoch drops.Epoch
	err := operation.RetrieveEpoch(r, height, &epoch)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve epoch %d: %w", height, err)
	}
	return &epoch, nil
}

func (e *Epochs) Exists(r storage.Reader, height uint64) (bool, error) {
	if e.cache.IsCached(height) {
		return true, nil
	}
	return operation.EpochExists(r, height)
}

func (e *Epochs) Range(r storage.Reader, from, to uint64) ([]*drops.Epoch, error) {
	if from > to {
		return nil, fmt.Errorf("invalid epoch range [%d, %d]", from, to)
	}
	var epochs []*drops.Epoch
	err := operation.RetrieveEpochs(r, from, to, &epochs)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve epochs [%d, %d]: %w", from, to, err)
	}
	return epochs, nil
}

func (e *Epochs) BatchInsert(rw storage.ReaderBatchWriter, epoch *drops.Epoch) error {
	err := operation.InsertEpoch(rw, epoch)
	if err != nil {
		return fmt.Errorf("could not insert epoch %d: %w", epoch.Height, err)
	}
	e.cache.InsertTx(rw, epoch.Height, epoch.Copy())
	return nil
}

func (e *Epochs) BatchUpdate(rw storage.ReaderBatchWriter, epoch *drops.Epoch) error {
	err := operation.UpdateEpoch(rw, epoch)
	if err != nil {
		return fmt.Errorf("could not update epoch %d: %w", epoch.Height, err)
	}
	e.cache.InsertTx(rw, epoch.Height, epoch.Copy())
	return nil
}

func (e *Epochs) BatchRemoveAll(rw storage.ReaderBatchWriter) error {
	err := operation.RemoveAllEpochs(rw.Writer())
	if err != nil {
		return fmt.Errorf("could not remove epochs: %w", err)
	}
	e.cache.PurgeTx(rw)
	return nil
}
