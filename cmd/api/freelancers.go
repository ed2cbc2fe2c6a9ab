package main

import (
	"net/http"

	"skilllinkup/internal/domain/reviews"
	"skilllinkup/internal/params"
)

// getFreelancerRatingHandler godoc
//
//	@Summary		Get a freelancer's rating
//	@Description	Average and count over the freelancer's visible reviews.
//	@Tags			freelancers
//	@Produce		json
//	@Param			freelancerID	path		int	true	"Freelancer user ID"
//	@Success		200				{object}	freelancers.Aggregate
//	@Failure		400				{object}	ErrorBadRequestResponse
//	@Failure		500				{object}	ErrorInternalServerResponse
//	@Router			/freelancers/{freelancerID}/rating [get]
func (app *application) getFreelancerRatingHandler(w http.ResponseWriter, r *http.Request) {
	freelancerID, err := parseIDParam(r, "freelancerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	ctx := r.Context()

	// read before Postgres so a concurrent invalidation makes the write-back a no-op
	var gen int64
	cacheable := app.ratings != nil
	if cacheable {
		cached, err := app.ratings.Get(ctx, freelancerID)
		if err != nil {
			app.logger.Warnw("rating cache read failed", "freelancer_id", freelancerID, "error", err)
		} else if cached != nil {
			if err := app.jsonResponse(w, http.StatusOK, cached); err != nil {
				app.internalServerError(w, r, err)
			}
			return
		}

		gen, err = app.ratings.Generation(ctx, freelancerID)
		if err != nil {
			app.logger.Warnw("rating cache generation read failed", "freelancer_id", freelancerID, "error", err)
			cacheable = false
		}
	}

	agg, err := app.store.Freelancers.Get(ctx, freelancerID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if cacheable {
		if err := app.ratings.Set(ctx, agg, gen); err != nil {
			app.logger.Warnw("rating cache write failed", "freelancer_id", freelancerID, "error", err)
		}
	}

	if err := app.jsonResponse(w, http.StatusOK, agg); err != nil {
		app.internalServerError(w, r, err)
	}
}

type FreelancerReviewsResponse struct {
	Reviews    []reviews.Review  `json:"reviews"`
	Pagination params.Pagination `json:"pagination"`
}

// getFreelancerReviewsHandler godoc
//
//	@Summary		List a freelancer's reviews
//	@Description	Only reviews that have been revealed are listed, newest first.
//	@Tags			freelancers
//	@Produce		json
//	@Param			freelancerID	path		int	true	"Freelancer user ID"
//	@Param			page			query		int	false	"Page number"
//	@Param			limit			query		int	false	"Items per page (max 30)"
//	@Success		200				{object}	FreelancerReviewsResponse
//	@Failure		400				{object}	ErrorBadRequestResponse
//	@Failure		500				{object}	ErrorInternalServerResponse
//	@Router			/freelancers/{freelancerID}/reviews [get]
func (app *application) getFreelancerReviewsHandler(w http.ResponseWriter, r *http.Request) {
	freelancerID, err := parseIDParam(r, "freelancerID")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Reviews.ListVisibleByReviewee(r.Context(), freelancerID, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if list == nil {
		list = []reviews.Review{}
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, FreelancerReviewsResponse{Reviews: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}
