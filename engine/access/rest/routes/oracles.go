package routes

import (
	"net/http"

	"github.com/droplets-system/epoch/engine/access/rest/models"
)

func GetOracles(r *http.Request, api API) (interface{}, error) {
	oracles, err := api.Oracles(r.Context())
	if err != nil {
		return nil, err
	}
	response := oracles.Strings()
	if response == nil {
		response = []string{}
	}
	return response, nil
}

func GetActiveOracles(r *http.Request, api API) (interface{}, error) {
	oracles, err := api.ActiveOraclesForCurrentEpoch(r.Context())
	if err != nil {
		return nil, err
	}
	response := oracles.Strings()
	if response == nil {
		response = []string{}
	}
	return response, nil
}

func GetState(r *http.Request, api API) (interface{}, error) {
	state, err := api.State(r.Context())
	if err != nil {
		return nil, err
	}
	var response models.State
	response.Build(state)
	return response, nil
}
