package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/framecast/pkg/domain"
)

// Issue is a problem found in a timeline that does not prevent loading but
// leaves content that can never be composited.
type Issue struct {
	Path    string // Location in the timeline, e.g. timeline.tracks[1][0]
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Inspect crawls the timeline and reports clips that are never visible or
// have no asset, folders without content and, when assetDir is not empty,
// sources missing from assetDir. Each asset is checked once.
func Inspect(p *domain.Project, assetDir string) []Issue {
	var issues []Issue
	checked := make(map[string]bool)

	var crawl func(n domain.Node, where string)
	crawl = func(n domain.Node, where string) {
		switch v := n.(type) {
		case *domain.Folder:
			if domain.CountClips(v) == 0 {
				issues = append(issues, Issue{where, "folder holds no clips"})
			}
			for ti, track := range v.Tracks {
				for ci, child := range track {
					crawl(child, fmt.Sprintf("%s.tracks[%d][%d]", where, ti, ci))
				}
			}
		case *domain.Clip:
			if v.Length == 0 {
				issues = append(issues, Issue{where, "clip has zero length and is never visible"})
			}
			if !v.HasSource || v.Source == "" {
				issues = append(issues, Issue{where, "clip has no source"})
				return
			}
			if assetDir == "" || checked[v.Source] {
				return
			}
			checked[v.Source] = true
			path := filepath.Join(assetDir, v.Source)
			if _, err := os.Stat(path); err != nil {
				issues = append(issues, Issue{where, fmt.Sprintf("asset %s is not readable: %v", path, err)})
			}
		}
	}

	if p == nil || p.Root == nil {
		return []Issue{{"timeline", "project has no timeline"}}
	}
	crawl(p.Root, "timeline")
	return issues
}

// ValidateProject returns an error listing every issue Inspect reports.
func ValidateProject(p *domain.Project, assetDir string) error {
	issues := Inspect(p, assetDir)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d issues:\n- %s", len(issues), strings.Join(lines, "\n- "))
}
