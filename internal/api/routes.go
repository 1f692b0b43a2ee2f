package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cutboard/cutboard-agent/internal/assets"
	"github.com/cutboard/cutboard-agent/internal/beats"
	"github.com/cutboard/cutboard-agent/internal/config"
	"github.com/cutboard/cutboard-agent/internal/export"
	"github.com/cutboard/cutboard-agent/internal/gesture"
	"github.com/cutboard/cutboard-agent/internal/jobs"
	"github.com/cutboard/cutboard-agent/internal/session"
	"github.com/cutboard/cutboard-agent/internal/timeline"
)

type handlers struct {
	cfg ServerConfig
}

// NewRouter wires the agent's local HTTP surface. Everything except /health
// sits behind the bearer-token check; the token lives in the config table and
// is printed once at startup for the editor UI to pick up.
func NewRouter(cfg ServerConfig) http.Handler {
	h := &handlers{cfg: cfg}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", h.health)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Store, cfg.Logger))

		r.Get("/status", h.status)

		r.Post("/projects", h.createProject)
		r.Get("/projects", h.listProjects)
		r.Post("/projects/{id}/open", h.openProject)
		r.Delete("/projects/{id}", h.deleteProject)

		r.Get("/project", h.currentProject)
		r.Post("/project/save", h.saveProject)
		r.Post("/project/commands", h.dispatchCommand)
		r.Post("/project/clips", h.addClip)
		r.Post("/project/text", h.addText)
		r.Post("/project/undo", h.undo)
		r.Post("/project/redo", h.redo)
		r.Put("/project/selection", h.setSelection)
		r.Get("/project/selection", h.getSelection)

		r.Post("/project/gesture/begin", h.gestureBegin)
		r.Post("/project/gesture/update", h.gestureUpdate)
		r.Post("/project/gesture/end", h.gestureEnd)
		r.Post("/project/gesture/cancel", h.gestureCancel)

		r.Post("/assets", h.registerAsset)
		r.Get("/assets", h.listAssets)
		r.Get("/assets/{id}", h.getAsset)
		r.Delete("/assets/{id}", h.deleteAsset)

		r.Post("/transcribe", h.startTranscribe)
		r.Get("/jobs", h.listJobs)
		r.Get("/jobs/{id}", h.getJob)

		r.Post("/beats/segment", h.segmentBeats)

		r.Post("/export", h.exportTimeline)
	})

	return r
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  config.Version,
		UptimeS:  int64(time.Since(h.cfg.StartTime).Seconds()),
		DeviceID: h.cfg.DeviceID,
	})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{State: "idle"}

	if count, err := h.cfg.AssetService.Count(r.Context()); err == nil {
		resp.AssetsCount = count
	}

	if sess := h.cfg.Sessions.Current(); sess != nil {
		resp.State = "editing"
		resp.ProjectID = sess.ProjectID()
		resp.ClipsCount = sess.Project().ClipCount()
		resp.CanUndo = sess.CanUndo()
		resp.CanRedo = sess.CanRedo()
		resp.GestureBusy = sess.GestureActive()
	}

	recent, err := h.cfg.JobsRepo.ListJobs(r.Context(), 20)
	if err == nil {
		for _, j := range recent {
			if j.Status == jobs.JobStatusRunning {
				resp.JobsRunning++
				if resp.ActiveJob == nil {
					jr := JobToResponse(j)
					resp.ActiveJob = &jr
				}
			}
			if j.Status == jobs.JobStatusFailed && resp.LastError == "" {
				resp.LastError = j.Error
			}
		}
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) createProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	if req.Name == "" {
		req.Name = "Untitled project"
	}

	p := timeline.NewProject(req.Name)
	if err := h.cfg.Store.SaveProject(r.Context(), p); err != nil {
		h.cfg.Logger.Error("failed to save new project", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to save project", "INTERNAL_ERROR")
		return
	}
	h.cfg.Sessions.Open(p)

	WriteJSON(w, http.StatusCreated, CreateProjectResponse{ProjectID: p.ID})
}

func (h *handlers) listProjects(w http.ResponseWriter, r *http.Request) {
	infos, err := h.cfg.Store.ListProjects(r.Context())
	if err != nil {
		h.cfg.Logger.Error("failed to list projects", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list projects", "INTERNAL_ERROR")
		return
	}
	resp := ProjectsResponse{Projects: make([]ProjectInfoResponse, 0, len(infos))}
	for _, info := range infos {
		resp.Projects = append(resp.Projects, ProjectInfoToResponse(info))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) openProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.cfg.Store.LoadProject(r.Context(), id)
	if err != nil {
		h.cfg.Logger.Error("failed to load project", "project_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to load project", "INTERNAL_ERROR")
		return
	}
	if p == nil {
		WriteError(w, http.StatusNotFound, "project not found", "NOT_FOUND")
		return
	}
	h.cfg.Sessions.Open(p)
	WriteJSON(w, http.StatusOK, p)
}

func (h *handlers) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if sess := h.cfg.Sessions.Current(); sess != nil && sess.ProjectID() == id {
		h.cfg.Sessions.Close()
	}
	if err := h.cfg.Store.DeleteProject(r.Context(), id); err != nil {
		h.cfg.Logger.Error("failed to delete project", "project_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to delete project", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) currentProject(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, sess.Project())
}

func (h *handlers) saveProject(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	p := sess.Project()
	if err := h.cfg.Store.SaveProject(r.Context(), p); err != nil {
		h.cfg.Logger.Error("failed to save project", "project_id", p.ID, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to save project", "INTERNAL_ERROR")
		return
	}
	sess.MarkSaved()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "saved", "project_id": p.ID})
}

func (h *handlers) dispatchCommand(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var cmd timeline.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}

	res, err := sess.Dispatch(cmd)
	if err != nil {
		writeTimelineError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *handlers) addClip(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req AddClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	if req.AssetID == "" {
		WriteError(w, http.StatusBadRequest, "asset_id is required", "INVALID_REQUEST")
		return
	}

	asset, err := h.cfg.AssetService.Get(r.Context(), req.AssetID)
	if err != nil {
		h.cfg.Logger.Error("failed to look up asset", "asset_id", req.AssetID, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to look up asset", "INTERNAL_ERROR")
		return
	}
	if asset == nil {
		WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
		return
	}

	clipID, err := sess.AddMediaClip(asset.Kind.ClipKind(), asset.ID, asset.Name, asset.Duration, asset.Width, asset.Height, req.StartTime)
	if err != nil {
		writeTimelineError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, AddClipResponse{ClipID: clipID})
}

func (h *handlers) addText(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req AddClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	if req.Text == "" {
		WriteError(w, http.StatusBadRequest, "text is required", "INVALID_REQUEST")
		return
	}

	clipID, err := sess.AddTextClip(req.Text, req.StartTime, req.Duration)
	if err != nil {
		writeTimelineError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, AddClipResponse{ClipID: clipID})
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	applied := sess.Undo()
	WriteJSON(w, http.StatusOK, UndoRedoResponse{Applied: applied, CanUndo: sess.CanUndo(), CanRedo: sess.CanRedo()})
}

func (h *handlers) redo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	applied := sess.Redo()
	WriteJSON(w, http.StatusOK, UndoRedoResponse{Applied: applied, CanUndo: sess.CanUndo(), CanRedo: sess.CanRedo()})
}

func (h *handlers) setSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	sess.Select(req.Primary, req.IDs)
	WriteJSON(w, http.StatusOK, sess.Selection())
}

func (h *handlers) getSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, sess.Selection())
}

func (h *handlers) gestureBegin(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req GestureBeginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}

	var err error
	switch req.Mode {
	case "resize":
		err = sess.BeginResize(req.ClipID, gesture.Handle(req.Handle))
	case "move":
		err = sess.BeginMove(req.ClipID)
	case "trim":
		err = sess.BeginTrim(req.ClipID, gesture.Edge(req.Edge))
	default:
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unknown gesture mode %q", req.Mode), "INVALID_REQUEST")
		return
	}
	if err != nil {
		writeGestureError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "dragging"})
}

func (h *handlers) gestureUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req GestureUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	if err := sess.UpdateGesture(req.DX, req.DY, req.Value); err != nil {
		writeGestureError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "dragging"})
}

func (h *handlers) gestureEnd(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	committed, err := sess.EndGesture()
	if err != nil {
		writeGestureError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, GestureEndResponse{Committed: committed})
}

func (h *handlers) gestureCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	if err := sess.CancelGesture(); err != nil {
		writeGestureError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *handlers) registerAsset(w http.ResponseWriter, r *http.Request) {
	var req RegisterAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}

	asset, err := h.cfg.AssetService.Register(r.Context(), assets.Asset{
		ID:       req.ID,
		Kind:     assets.Kind(req.Kind),
		URL:      req.URL,
		Name:     req.Name,
		Duration: req.Duration,
		Width:    req.Width,
		Height:   req.Height,
	})
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
		return
	}
	WriteJSON(w, http.StatusCreated, AssetToResponse(asset))
}

func (h *handlers) listAssets(w http.ResponseWriter, r *http.Request) {
	list, err := h.cfg.AssetService.List(r.Context())
	if err != nil {
		h.cfg.Logger.Error("failed to list assets", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list assets", "INTERNAL_ERROR")
		return
	}
	resp := AssetsResponse{Assets: make([]AssetResponse, 0, len(list))}
	for _, a := range list {
		resp.Assets = append(resp.Assets, AssetToResponse(a))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, err := h.cfg.AssetService.Get(r.Context(), id)
	if err != nil {
		h.cfg.Logger.Error("failed to get asset", "asset_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to get asset", "INTERNAL_ERROR")
		return
	}
	if asset == nil {
		WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
		return
	}
	WriteJSON(w, http.StatusOK, AssetToResponse(asset))
}

func (h *handlers) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.cfg.AssetService.Remove(r.Context(), id); err != nil {
		h.cfg.Logger.Error("failed to delete asset", "asset_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to delete asset", "INTERNAL_ERROR")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) startTranscribe(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	if req.ClipID == "" {
		WriteError(w, http.StatusBadRequest, "clip_id is required", "INVALID_REQUEST")
		return
	}

	project := sess.Project()
	clip, _, err := project.FindClip(req.ClipID)
	if err != nil {
		WriteError(w, http.StatusNotFound, "clip not found", "NOT_FOUND")
		return
	}
	if clip.AssetID == "" {
		WriteError(w, http.StatusBadRequest, "clip has no backing media", "INVALID_REQUEST")
		return
	}

	job, err := h.cfg.Runner.EnqueueTranscribe(r.Context(), project.ID, req.ClipID)
	if err != nil {
		h.cfg.Logger.Error("failed to enqueue transcribe job", "clip_id", req.ClipID, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to enqueue job", "INTERNAL_ERROR")
		return
	}
	WriteJSON(w, http.StatusAccepted, TranscribeResponse{JobID: job.ID})
}

func (h *handlers) listJobs(w http.ResponseWriter, r *http.Request) {
	list, err := h.cfg.JobsRepo.ListJobs(r.Context(), 50)
	if err != nil {
		h.cfg.Logger.Error("failed to list jobs", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
		return
	}
	resp := JobsResponse{Jobs: make([]JobResponse, 0, len(list))}
	for _, j := range list {
		resp.Jobs = append(resp.Jobs, JobToResponse(j))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *handlers) getJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := h.cfg.JobsRepo.GetJob(r.Context(), id)
	if err != nil {
		h.cfg.Logger.Error("failed to get job", "job_id", id, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to get job", "INTERNAL_ERROR")
		return
	}
	if job == nil {
		WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
		return
	}
	WriteJSON(w, http.StatusOK, JobToResponse(job))
}

type segmentRequest struct {
	Words  []beats.Word  `json:"words"`
	Params *beats.Params `json:"params,omitempty"`
}

type segmentResponse struct {
	Beats []beats.Beat `json:"beats"`
}

// segmentBeats runs the caption segmenter on caller-supplied word timings
// without touching the open project, so the editor UI can preview beat
// boundaries before committing them.
func (h *handlers) segmentBeats(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	params := beats.DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}
	result := beats.Segment(req.Words, params)
	if result == nil {
		result = []beats.Beat{}
	}
	WriteJSON(w, http.StatusOK, segmentResponse{Beats: result})
}

func (h *handlers) exportTimeline(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireSession(w)
	if !ok {
		return
	}
	var req export.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
		return
	}
	if req.Format == "" {
		req.Format = "edl"
	}
	if req.Format != "edl" {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", req.Format), "INVALID_REQUEST")
		return
	}
	if req.FrameRate == 0 {
		req.FrameRate = 30
	}
	if err := export.ValidateOutputDir(req.OutputDir); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
		return
	}

	project := sess.Project()
	resolved, unresolved, err := export.ResolveTimeline(r.Context(), project, h.cfg.AssetService)
	if err != nil {
		h.cfg.Logger.Error("failed to resolve timeline", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to resolve timeline", "INTERNAL_ERROR")
		return
	}

	edl := export.GenerateEDL(resolved, project.Name, req.FrameRate)
	filename := export.FileName(project.Name, project.ID)
	outPath := filepath.Join(req.OutputDir, filename+".edl")
	if err := os.WriteFile(outPath, []byte(edl), 0o644); err != nil {
		h.cfg.Logger.Error("failed to write EDL", "path", outPath, "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to write export file", "INTERNAL_ERROR")
		return
	}

	if unresolved == nil {
		unresolved = []string{}
	}
	WriteJSON(w, http.StatusOK, export.ExportResponse{
		Status:          "completed",
		Format:          req.Format,
		OutputPath:      outPath,
		ClipCount:       len(resolved),
		UnresolvedClips: unresolved,
	})
}

func (h *handlers) requireSession(w http.ResponseWriter) (*session.Session, bool) {
	sess := h.cfg.Sessions.Current()
	if sess == nil {
		WriteError(w, http.StatusConflict, "no project open", "NO_PROJECT")
		return nil, false
	}
	return sess, true
}

func writeTimelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, timeline.ErrClipNotFound), errors.Is(err, timeline.ErrLaneNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, timeline.ErrInvalidValue),
		errors.Is(err, timeline.ErrInvalidTiming),
		errors.Is(err, timeline.ErrLaneKindMismatch):
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
	default:
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
	}
}

func writeGestureError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gesture.ErrGestureActive):
		WriteError(w, http.StatusConflict, err.Error(), "GESTURE_ACTIVE")
	case errors.Is(err, gesture.ErrNoGesture):
		WriteError(w, http.StatusConflict, err.Error(), "NO_GESTURE")
	case errors.Is(err, timeline.ErrClipNotFound):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
	}
}
