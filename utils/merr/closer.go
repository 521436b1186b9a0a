package merr

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// CloseAndMergeError closes the closer and merges the close error into err.
// It returns err unchanged if closing succeeds, the close error if err is
// nil, and both combined otherwise.
func CloseAndMergeError(closable io.Closer, err error) error {
	closeError := closable.Close()
	if closeError == nil {
		return err
	}
	if err == nil {
		return closeError
	}
	return multierror.Append(err, closeError)
}
