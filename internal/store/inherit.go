package store

import (
	"go.uber.org/zap"

	"content-cli/internal/model"
)

// Resolution is an effective setting and the folder it came from. SourceID is
// empty when the value is the system default (false).
type Resolution struct {
	Value    bool   `json:"value"`
	SourceID string `json:"sourceId,omitempty"`
}

type setting struct {
	name string
	get  func(model.Item) model.Tri
	// own reports whether a non-folder item's stored value is authoritative.
	own func(model.Item) bool
}

var (
	playgroundSetting = setting{
		name: "playgroundMode",
		get:  func(it model.Item) model.Tri { return it.PlaygroundMode },
		own:  func(it model.Item) bool { return it.Type == model.ItemTypeSimulation },
	}
	assessmentSetting = setting{
		name: "hasAssessment",
		get:  func(it model.Item) model.Tri { return it.HasAssessment },
		own:  func(it model.Item) bool { return true },
	}
)

// EffectivePlaygroundMode resolves playground mode for id (nil = root, false).
// A folder's explicit value wins; otherwise the nearest ancestor folder with an
// explicit value decides, defaulting to false. Simulations use their own value.
// Workflows carry no value of their own and resolve through their folder.
func (db *DB) EffectivePlaygroundMode(id *string) bool {
	return db.ResolvePlaygroundMode(id).Value
}

// EffectiveHasAssessment resolves the assessment setting the same way. Only
// folders inherit it; workflows and simulations use their stored value.
func (db *DB) EffectiveHasAssessment(id *string) bool {
	return db.ResolveHasAssessment(id).Value
}

func (db *DB) ResolvePlaygroundMode(id *string) Resolution {
	return db.resolve(id, playgroundSetting)
}

func (db *DB) ResolveHasAssessment(id *string) Resolution {
	return db.resolve(id, assessmentSetting)
}

// ResolveInherited resolves what a folder would get from its ancestors if its
// own value were Inherit. Configuration views show it next to the explicit value.
func (db *DB) ResolveInherited(id string, name string) Resolution {
	it, ok := db.find(id)
	if !ok {
		return Resolution{}
	}
	s := playgroundSetting
	if name == assessmentSetting.name {
		s = assessmentSetting
	}
	return db.walkUp(it.ParentID, s)
}

func (db *DB) resolve(id *string, s setting) Resolution {
	if id == nil {
		return Resolution{}
	}
	it, ok := db.find(*id)
	if !ok {
		return Resolution{}
	}
	if it.IsFolder() {
		if v, explicit := s.get(*it).Explicit(); explicit {
			return Resolution{Value: v, SourceID: it.ID}
		}
	} else if s.own(*it) {
		return Resolution{Value: s.get(*it).Bool(), SourceID: it.ID}
	}
	return db.walkUp(it.ParentID, s)
}

// walkUp returns the first explicit value on the folder chain starting at id.
func (db *DB) walkUp(id *string, s setting) Resolution {
	seen := map[string]bool{}
	for hops := 0; id != nil; hops++ {
		if seen[*id] || hops >= maxHops {
			db.logger().Warn("cycle detected while resolving setting", zap.String("setting", s.name), zap.String("id", *id))
			return Resolution{}
		}
		seen[*id] = true
		f, ok := db.find(*id)
		if !ok || !f.IsFolder() {
			return Resolution{}
		}
		if v, explicit := s.get(*f).Explicit(); explicit {
			return Resolution{Value: v, SourceID: f.ID}
		}
		id = f.ParentID
	}
	return Resolution{}
}
