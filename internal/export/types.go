package export

// ExportRequest asks for the open project's video timeline as an edit
// decision list.
type ExportRequest struct {
	Format    string  `json:"format"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir"`
}

// ResolvedClip is a timeline clip joined with its asset's media location.
type ResolvedClip struct {
	ClipName    string
	MediaURL    string
	SourceStart float64 // seconds into the source media
	SourceEnd   float64
	RecordStart float64 // seconds on the project timeline
	RecordEnd   float64
}

// ExportResponse reports the written file and any clips that could not be
// resolved against the asset store.
type ExportResponse struct {
	Status          string   `json:"status"`
	Format          string   `json:"format"`
	OutputPath      string   `json:"output_path"`
	ClipCount       int      `json:"clip_count"`
	UnresolvedClips []string `json:"unresolved_clips"`
}
