package project

import (
	"fmt"

	"github.com/aretw0/framecast/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// rawNode is the loosely typed form of a timeline node.
type rawNode struct {
	Role   string `mapstructure:"role"`
	Start  int    `mapstructure:"start"`
	Length int    `mapstructure:"length"`
	Source string `mapstructure:"source"`
	Tracks []any  `mapstructure:"tracks"`
}

// Parse decodes a project document. JSON is accepted as a subset of YAML.
func Parse(data []byte) (*domain.Project, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("empty project")
	}

	project := &domain.Project{}
	rootDef := any(doc)
	if _, hasRole := doc["role"]; !hasRole {
		tl, ok := doc["timeline"]
		if !ok {
			return nil, fmt.Errorf("project has neither a root role nor a timeline")
		}
		rootDef = tl
		if name, ok := doc["name"].(string); ok {
			project.Name = name
		}
	}

	root, err := buildNode(rootDef, "timeline")
	if err != nil {
		return nil, err
	}
	project.Root = root
	return project, nil
}

func buildNode(def any, where string) (domain.Node, error) {
	m, ok := def.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a mapping, got %T", where, def)
	}

	var raw rawNode
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("%s: %w", where, err)
	}

	switch raw.Role {
	case domain.RoleClip:
		if raw.Length < 0 {
			return nil, fmt.Errorf("%s: negative length %d", where, raw.Length)
		}
		return domain.NewClip(raw.Start, raw.Length, raw.Source), nil

	case domain.RoleFolder:
		tracks := make([]domain.Track, 0, len(raw.Tracks))
		for i, t := range raw.Tracks {
			items, err := trackItems(t, fmt.Sprintf("%s.tracks[%d]", where, i))
			if err != nil {
				return nil, err
			}
			track := make(domain.Track, 0, len(items))
			for j, item := range items {
				child, err := buildNode(item, fmt.Sprintf("%s.tracks[%d].clips[%d]", where, i, j))
				if err != nil {
					return nil, err
				}
				track = append(track, child)
			}
			tracks = append(tracks, track)
		}
		return domain.NewFolder(raw.Start, tracks...), nil

	default:
		return nil, fmt.Errorf("%s: %w: role %q", where, domain.ErrUnknownNode, raw.Role)
	}
}

// trackItems accepts {clips: [...]} or a bare list.
func trackItems(def any, where string) ([]any, error) {
	switch t := def.(type) {
	case []any:
		return t, nil
	case map[string]any:
		clips, ok := t["clips"]
		if !ok || clips == nil {
			return nil, nil
		}
		items, ok := clips.([]any)
		if !ok {
			return nil, fmt.Errorf("%s.clips: expected a list, got %T", where, clips)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("%s: expected a mapping or list, got %T", where, def)
	}
}
