package routes

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/droplets-system/epoch/engine/access/rest/models"
	"github.com/droplets-system/epoch/engine/access/rest/request"
)

// GetEpoch returns the epoch at the height in the path.
func GetEpoch(r *http.Request, api API) (interface{}, error) {
	var height request.Height
	err := height.Parse(mux.Vars(r)["height"])
	if err != nil {
		return nil, models.NewBadRequestError(err)
	}

	epoch, err := api.Epoch(r.Context(), height.Uint64())
	if err != nil {
		return nil, err
	}
	state, err := api.State(r.Context())
	if err != nil {
		return nil, err
	}

	var response models.Epoch
	response.Build(epoch, state)
	return response, nil
}

// GetCurrentEpoch returns the height of the current epoch and the oracles
// expected to commit to it. It does not create the epoch record.
func GetCurrentEpoch(r *http.Request, api API) (interface{}, error) {
	height, err := api.CurrentEpochHeight(r.Context())
	if err != nil {
		return nil, err
	}
	oracles, err := api.ActiveOraclesForCurrentEpoch(r.Context())
	if err != nil {
		return nil, err
	}

	response := models.CurrentEpoch{
		Height:  strconv.FormatUint(height, 10),
		Oracles: oracles.Strings(),
	}
	if response.Oracles == nil {
		response.Oracles = []string{}
	}
	return response, nil
}
