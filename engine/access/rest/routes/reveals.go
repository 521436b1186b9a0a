package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/droplets-system/epoch/engine/access/rest/models"
	"github.com/droplets-system/epoch/engine/access/rest/request"
)

// SubmitReveal records the reveal of the oracle named in the body. The
// request must carry the oracle's authority.
func SubmitReveal(r *http.Request, api API) (interface{}, error) {
	req, err := request.RevealRequest(r.Body)
	if err != nil {
		return nil, models.NewBadRequestError(err)
	}

	result, err := api.SubmitReveal(r.Context(), req.Oracle, req.Epoch, req.Reveal)
	if err != nil {
		return nil, err
	}

	response := models.RevealResult{Finalized: result.Finalized}
	response.Reveal.Build(result.Reveal)
	if result.Finalized {
		response.Seed = result.Seed.String()
	}
	return response, nil
}

// GetEpochReveals returns the reveals recorded for an epoch which has not
// been finalized yet.
func GetEpochReveals(r *http.Request, api API) (interface{}, error) {
	var height request.Height
	err := height.Parse(mux.Vars(r)["height"])
	if err != nil {
		return nil, models.NewBadRequestError(err)
	}

	reveals, err := api.Reveals(r.Context(), height.Uint64())
	if err != nil {
		return nil, err
	}

	response := make([]models.Reveal, len(reveals))
	for i, reveal := range reveals {
		response[i].Build(reveal)
	}
	return response, nil
}
