package export

import (
	"context"
	"sort"

	"github.com/cutboard/cutboard-agent/internal/assets"
	"github.com/cutboard/cutboard-agent/internal/timeline"
)

// ResolveTimeline joins the project's video-lane clips with their asset
// URLs, ordered by timeline position. Clips whose asset is missing from the
// store are reported as unresolved instead of failing the export.
func ResolveTimeline(ctx context.Context, p *timeline.Project, assetSvc assets.AssetService) ([]ResolvedClip, []string, error) {
	var resolved []ResolvedClip
	var unresolved []string

	for _, lane := range p.Lanes {
		if lane.Kind != timeline.LaneVideo {
			continue
		}
		for _, clip := range lane.Clips {
			if clip.AssetID == "" {
				unresolved = append(unresolved, clip.ID)
				continue
			}
			asset, err := assetSvc.Get(ctx, clip.AssetID)
			if err != nil {
				return nil, nil, err
			}
			if asset == nil {
				unresolved = append(unresolved, clip.ID)
				continue
			}

			name := clip.Name
			if name == "" {
				name = asset.Name
			}
			if name == "" {
				name = clip.ID
			}

			resolved = append(resolved, ResolvedClip{
				ClipName:    clipName(name),
				MediaURL:    asset.URL,
				SourceStart: 0,
				SourceEnd:   clip.Duration * clip.Speed,
				RecordStart: clip.StartTime,
				RecordEnd:   clip.EndTime(),
			})
		}
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].RecordStart < resolved[j].RecordStart
	})
	return resolved, unresolved, nil
}
