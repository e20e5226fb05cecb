// Package handler exposes the admission lifecycle over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"admissio/internal/admission/service"
	"admissio/internal/platform/middleware"
	"admissio/internal/platform/web"
	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

// Handler routes admission requests to the services.
type Handler struct {
	apps       *service.ApplicationService
	applicants *service.ApplicantService
	centres    *service.CentreService
	reviews    *service.ReviewService
	logger     *slog.Logger
}

func New(apps *service.ApplicationService, applicants *service.ApplicantService, centres *service.CentreService, reviews *service.ReviewService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{apps: apps, applicants: applicants, centres: centres, reviews: reviews, logger: logger}
}

// Register mounts all admission routes. Staff-only routes sit behind
// RequireStaff; submission and tracking stay public.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.submitApplication)
	r.Get("/applications/{applicationID}", h.getApplication)
	r.Get("/applications/{applicationID}/history", h.listHistory)
	r.Get("/track/{trackingID}", h.track)

	r.Post("/applicants", h.createApplicant)
	r.Get("/applicants/{applicantID}", h.getApplicant)

	r.Get("/centres", h.listCentres)
	r.Get("/centres/{centreID}", h.getCentre)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireStaff)

		r.Get("/applications", h.listApplications)
		r.Patch("/applications/{applicationID}", h.updateApplication)
		r.Post("/applications/{applicationID}/reviews", h.addReview)
		r.Get("/applications/{applicationID}/reviews", h.listReviews)

		r.Get("/applicants", h.listApplicants)
		r.Patch("/applicants/{applicantID}", h.updateApplicant)
		r.Post("/applicants/{applicantID}/promote", h.promoteApplicant)

		r.Post("/centres", h.createCentre)
		r.Delete("/centres/{centreID}", h.deleteCentre)
	})
}

func (h *Handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	app, err := h.apps.Submit(r.Context(), in)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusCreated, app)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "application_id", "invalid application ID"))
		return
	}
	details, err := h.apps.Get(r.Context(), applicationID)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, details)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.apps.List(r.Context())
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, apps)
}

func (h *Handler) updateApplication(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "application_id", "invalid application ID"))
		return
	}
	var req updateApplicationRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	app, err := h.apps.Update(r.Context(), applicationID, req.toInput())
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, app)
}

func (h *Handler) listHistory(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "application_id", "invalid application ID"))
		return
	}
	entries, err := h.apps.History(r.Context(), applicationID)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, entries)
}

func (h *Handler) track(w http.ResponseWriter, r *http.Request) {
	app, err := h.apps.Track(r.Context(), chi.URLParam(r, "trackingID"))
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, trackResponse{
		TrackingID:    app.TrackingID,
		Status:        app.Status,
		DateSubmitted: app.DateSubmitted,
		DateUpdated:   app.DateUpdated,
	})
}

func (h *Handler) createApplicant(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	profile, err := h.applicants.Create(r.Context(), *in)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusCreated, profile)
}

func (h *Handler) getApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "applicant_id", "invalid applicant ID"))
		return
	}
	profile, err := h.applicants.Get(r.Context(), applicantID)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, profile)
}

func (h *Handler) listApplicants(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.applicants.List(r.Context())
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, profiles)
}

func (h *Handler) updateApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "applicant_id", "invalid applicant ID"))
		return
	}
	var req applicantPatchRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	profile, err := h.applicants.Update(r.Context(), applicantID, req.toPatch())
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, profile)
}

func (h *Handler) promoteApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID, err := id.ParseApplicantID(chi.URLParam(r, "applicantID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "applicant_id", "invalid applicant ID"))
		return
	}
	var req promoteRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	profile, err := h.applicants.Promote(r.Context(), applicantID, service.PromoteInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusCreated, profile)
}

func (h *Handler) createCentre(w http.ResponseWriter, r *http.Request) {
	var req centreRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	c, err := h.centres.Create(r.Context(), req.Name, req.Location)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusCreated, c)
}

func (h *Handler) listCentres(w http.ResponseWriter, r *http.Request) {
	centres, err := h.centres.List(r.Context())
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, centres)
}

func (h *Handler) getCentre(w http.ResponseWriter, r *http.Request) {
	centreID, err := id.ParseCentreID(chi.URLParam(r, "centreID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "centre_id", "invalid centre ID"))
		return
	}
	c, err := h.centres.Get(r.Context(), centreID)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, c)
}

func (h *Handler) deleteCentre(w http.ResponseWriter, r *http.Request) {
	centreID, err := id.ParseCentreID(chi.URLParam(r, "centreID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "centre_id", "invalid centre ID"))
		return
	}
	if err := h.centres.Delete(r.Context(), centreID); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusNoContent, nil)
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "application_id", "invalid application ID"))
		return
	}
	var req reviewRequest
	if err := web.Decode(r, &req); err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}

	rev, err := h.reviews.Add(r.Context(), applicationID, req.Comments)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusCreated, rev)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	applicationID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		web.RespondError(w, r, h.logger, dErrors.NewField(dErrors.CodeBadRequest, "application_id", "invalid application ID"))
		return
	}
	reviews, err := h.reviews.ListByApplication(r.Context(), applicationID)
	if err != nil {
		web.RespondError(w, r, h.logger, err)
		return
	}
	web.Respond(w, http.StatusOK, reviews)
}
