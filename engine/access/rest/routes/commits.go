package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/droplets-system/epoch/engine/access/rest/models"
	"github.com/droplets-system/epoch/engine/access/rest/request"
)

// SubmitCommit records the commit of the oracle named in the body. The
// request must carry the oracle's authority.
func SubmitCommit(r *http.Request, api API) (interface{}, error) {
	req, err := request.CommitRequest(r.Body)
	if err != nil {
		return nil, models.NewBadRequestError(err)
	}

	commit, err := api.SubmitCommit(r.Context(), req.Oracle, req.Epoch, req.Commit)
	if err != nil {
		return nil, err
	}

	var response models.Commit
	response.Build(commit)
	return response, nil
}

// GetEpochCommits returns the commits recorded for an epoch which has not
// been finalized yet.
func GetEpochCommits(r *http.Request, api API) (interface{}, error) {
	var height request.Height
	err := height.Parse(mux.Vars(r)["height"])
	if err != nil {
		return nil, models.NewBadRequestError(err)
	}

	commits, err := api.Commits(r.Context(), height.Uint64())
	if err != nil {
		return nil, err
	}

	response := make([]models.Commit, len(commits))
	for i, commit := range commits {
		response[i].Build(commit)
	}
	return response, nil
}
