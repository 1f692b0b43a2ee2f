package api

import (
	"time"

	"github.com/cutboard/cutboard-agent/internal/assets"
	"github.com/cutboard/cutboard-agent/internal/jobs"
	"github.com/cutboard/cutboard-agent/internal/store"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	UptimeS  int64  `json:"uptime_s"`
	DeviceID string `json:"device_id"`
}

type StatusResponse struct {
	State       string       `json:"state"`
	LastError   string       `json:"last_error,omitempty"`
	ProjectID   string       `json:"project_id,omitempty"`
	ClipsCount  int          `json:"clips_count"`
	AssetsCount int          `json:"assets_count"`
	JobsRunning int          `json:"jobs_running"`
	ActiveJob   *JobResponse `json:"active_job,omitempty"`
	CanUndo     bool         `json:"can_undo"`
	CanRedo     bool         `json:"can_redo"`
	GestureBusy bool         `json:"gesture_busy"`
}

type CreateProjectRequest struct {
	Name string `json:"name"`
}

type CreateProjectResponse struct {
	ProjectID string `json:"project_id"`
}

type ProjectsResponse struct {
	Projects []ProjectInfoResponse `json:"projects"`
}

type ProjectInfoResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type RegisterAssetRequest struct {
	ID       string  `json:"id,omitempty"`
	Kind     string  `json:"kind,omitempty"`
	URL      string  `json:"url"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
}

type AssetResponse struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	URL      string  `json:"url"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`

	CreatedAt string `json:"created_at"`
}

type AssetsResponse struct {
	Assets []AssetResponse `json:"assets"`
}

type AddClipRequest struct {
	AssetID   string  `json:"asset_id,omitempty"`
	Text      string  `json:"text,omitempty"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration,omitempty"`
}

type AddClipResponse struct {
	ClipID string `json:"clip_id"`
}

type GestureBeginRequest struct {
	ClipID string `json:"clip_id"`
	// Mode is "resize", "move", or "trim".
	Mode   string `json:"mode"`
	Handle string `json:"handle,omitempty"`
	Edge   string `json:"edge,omitempty"`
}

type GestureUpdateRequest struct {
	DX    float64 `json:"dx,omitempty"`
	DY    float64 `json:"dy,omitempty"`
	Value float64 `json:"value,omitempty"`
}

type GestureEndResponse struct {
	Committed bool `json:"committed"`
}

type UndoRedoResponse struct {
	Applied bool `json:"applied"`
	CanUndo bool `json:"can_undo"`
	CanRedo bool `json:"can_redo"`
}

type SelectionRequest struct {
	Primary string   `json:"primary,omitempty"`
	IDs     []string `json:"ids,omitempty"`
}

type TranscribeRequest struct {
	ClipID string `json:"clip_id"`
}

type TranscribeResponse struct {
	JobID string `json:"job_id"`
}

type JobResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	ProjectID string `json:"project_id,omitempty"`
	ClipID    string `json:"clip_id,omitempty"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func AssetToResponse(a *assets.Asset) AssetResponse {
	return AssetResponse{
		ID:        a.ID,
		Kind:      string(a.Kind),
		URL:       a.URL,
		Name:      a.Name,
		Duration:  a.Duration,
		Width:     a.Width,
		Height:    a.Height,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

func JobToResponse(j *jobs.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		Type:      j.Type,
		Status:    j.Status,
		ProjectID: j.ProjectID,
		ClipID:    j.ClipID,
		Progress:  j.Progress,
		Error:     j.Error,
		CreatedAt: j.CreatedAt.Format(time.RFC3339),
		UpdatedAt: j.UpdatedAt.Format(time.RFC3339),
	}
}

func ProjectInfoToResponse(info *store.ProjectInfo) ProjectInfoResponse {
	return ProjectInfoResponse{
		ID:        info.ID,
		Name:      info.Name,
		CreatedAt: info.CreatedAt.Format(time.RFC3339),
		UpdatedAt: info.UpdatedAt.Format(time.RFC3339),
	}
}
