package project

import (
	"fmt"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// Inherit-from-parent sentinel seeded as the first entry of list
// settings.
const inherited = "$(inherited)"

// PropertyFilter selects the build configurations an operation
// applies to. Configuration filters by configuration name ("Debug",
// "Release"); TargetKey or TargetName restrict to the configurations
// of one target's configuration list. Empty fields select everything.
type PropertyFilter struct {
	Configuration string
	TargetName    string
	TargetKey     string
}

// configurations resolves a filter to the matching configuration
// records, in bucket order.
func (p *Project) configurations(f PropertyFilter) ([]*openstep.Dict, error) {
	var allowed map[string]bool
	if f.TargetKey != "" || f.TargetName != "" {
		id := f.TargetKey
		if id == "" {
			var ok bool
			id, _, ok = p.TargetByName(f.TargetName)
			if !ok {
				return nil, fmt.Errorf("invalid target: %s", f.TargetName)
			}
		}
		target, ok := p.NativeTargetByKey(id)
		if !ok {
			return nil, fmt.Errorf("invalid target: %s", id)
		}
		listID, _ := target.GetString("buildConfigurationList")
		allowed = map[string]bool{}
		if sec := p.Graph.Section(pbx.ConfigurationList); sec != nil {
			if list, ok := sec.GetDict(listID); ok {
				if cfgs, ok := list.GetArray("buildConfigurations"); ok {
					for _, e := range cfgs.Elems {
						if s, ok := e.Value.(openstep.String); ok {
							allowed[string(s)] = true
						}
					}
				}
			}
		}
	}

	sec := p.Graph.Section(pbx.BuildConfiguration)
	if sec == nil {
		return nil, nil
	}
	var out []*openstep.Dict
	for _, fld := range sec.Fields() {
		cfg, ok := fld.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if allowed != nil && !allowed[fld.Key] {
			continue
		}
		if f.Configuration != "" {
			if name, _ := cfg.GetString("name"); name != f.Configuration {
				continue
			}
		}
		out = append(out, cfg)
	}
	return out, nil
}

func settingsOf(cfg *openstep.Dict) *openstep.Dict {
	s, ok := cfg.GetDict("buildSettings")
	if !ok {
		s = openstep.NewDict()
		cfg.Set("buildSettings", s)
	}
	return s
}

// UpdateBuildProperty upserts a build setting across the selected
// configurations, returning how many were touched. Application order
// across configurations carries no meaning; every match receives the
// same value.
func (p *Project) UpdateBuildProperty(key string, value openstep.Value, f PropertyFilter) (int, error) {
	cfgs, err := p.configurations(f)
	if err != nil {
		return 0, err
	}
	for _, cfg := range cfgs {
		settingsOf(cfg).Set(key, value)
	}
	return len(cfgs), nil
}

// AddBuildProperty upserts a build setting across the selected
// configurations.
func (p *Project) AddBuildProperty(key string, value openstep.Value, f PropertyFilter) (int, error) {
	return p.UpdateBuildProperty(key, value, f)
}

// RemoveBuildProperty deletes a build setting from the selected
// configurations, returning how many carried it.
func (p *Project) RemoveBuildProperty(key string, f PropertyFilter) (int, error) {
	cfgs, err := p.configurations(f)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, cfg := range cfgs {
		if settingsOf(cfg).Delete(key) {
			n++
		}
	}
	return n, nil
}

// BuildProperty reads a build setting from the first selected
// configuration that carries it.
func (p *Project) BuildProperty(key string, f PropertyFilter) (openstep.Value, bool, error) {
	cfgs, err := p.configurations(f)
	if err != nil {
		return nil, false, err
	}
	for _, cfg := range cfgs {
		if v, ok := settingsOf(cfg).Get(key); ok {
			return v, true, nil
		}
	}
	return nil, false, nil
}

// UpdateProductName sets PRODUCT_NAME across the selected
// configurations.
func (p *Project) UpdateProductName(name string, f PropertyFilter) (int, error) {
	return p.UpdateBuildProperty("PRODUCT_NAME", openstep.String(name), f)
}

// AppendToBuildList appends a value to a list-valued build setting in
// the selected configurations, returning how many were touched.
func (p *Project) AppendToBuildList(key, value string, f PropertyFilter) (int, error) {
	return p.addToSettingList(key, value, f)
}

// RemoveFromBuildList splices a value out of a list-valued build
// setting in the selected configurations, returning how many entries
// were removed.
func (p *Project) RemoveFromBuildList(key, value string, f PropertyFilter) (int, error) {
	return p.removeFromSettingList(key, value, f)
}

// addToSettingList appends a value to a list-valued build setting in
// each selected configuration. A missing or scalar setting is rebuilt
// as a list seeded with the inherit sentinel; a non-sentinel scalar is
// kept after the seed. Entries append in call order and may repeat.
func (p *Project) addToSettingList(key, value string, f PropertyFilter) (int, error) {
	cfgs, err := p.configurations(f)
	if err != nil {
		return 0, err
	}
	for _, cfg := range cfgs {
		s := settingsOf(cfg)
		arr, ok := s.Get(key)
		list, isList := arr.(*openstep.Array)
		if !ok || !isList {
			list = &openstep.Array{}
			list.Append(openstep.String(inherited), "")
			if prev, isStr := arr.(openstep.String); ok && isStr && string(prev) != inherited {
				list.Append(prev, "")
			}
			s.Set(key, list)
		}
		list.Append(openstep.String(value), "")
	}
	return len(cfgs), nil
}

// removeFromSettingList splices the first matching entry out of a
// list-valued build setting in each selected configuration. The
// inherit sentinel stays in place.
func (p *Project) removeFromSettingList(key, value string, f PropertyFilter) (int, error) {
	cfgs, err := p.configurations(f)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, cfg := range cfgs {
		list, ok := settingsOf(cfg).GetArray(key)
		if !ok {
			continue
		}
		removed := list.RemoveFirst(func(e openstep.Element) bool {
			s, ok := e.Value.(openstep.String)
			return ok && string(s) == value
		})
		if removed {
			n++
		}
	}
	return n, nil
}

// AddFrameworkSearchPath appends to FRAMEWORK_SEARCH_PATHS.
func (p *Project) AddFrameworkSearchPath(value string, f PropertyFilter) (int, error) {
	return p.addToSettingList("FRAMEWORK_SEARCH_PATHS", value, f)
}

// RemoveFrameworkSearchPath splices from FRAMEWORK_SEARCH_PATHS.
func (p *Project) RemoveFrameworkSearchPath(value string, f PropertyFilter) (int, error) {
	return p.removeFromSettingList("FRAMEWORK_SEARCH_PATHS", value, f)
}

// AddLibrarySearchPath appends to LIBRARY_SEARCH_PATHS.
func (p *Project) AddLibrarySearchPath(value string, f PropertyFilter) (int, error) {
	return p.addToSettingList("LIBRARY_SEARCH_PATHS", value, f)
}

// RemoveLibrarySearchPath splices from LIBRARY_SEARCH_PATHS.
func (p *Project) RemoveLibrarySearchPath(value string, f PropertyFilter) (int, error) {
	return p.removeFromSettingList("LIBRARY_SEARCH_PATHS", value, f)
}

// AddHeaderSearchPath appends to HEADER_SEARCH_PATHS.
func (p *Project) AddHeaderSearchPath(value string, f PropertyFilter) (int, error) {
	return p.addToSettingList("HEADER_SEARCH_PATHS", value, f)
}

// RemoveHeaderSearchPath splices from HEADER_SEARCH_PATHS.
func (p *Project) RemoveHeaderSearchPath(value string, f PropertyFilter) (int, error) {
	return p.removeFromSettingList("HEADER_SEARCH_PATHS", value, f)
}

// AddOtherLinkerFlag appends to OTHER_LDFLAGS.
func (p *Project) AddOtherLinkerFlag(value string, f PropertyFilter) (int, error) {
	return p.addToSettingList("OTHER_LDFLAGS", value, f)
}

// RemoveOtherLinkerFlag splices from OTHER_LDFLAGS.
func (p *Project) RemoveOtherLinkerFlag(value string, f PropertyFilter) (int, error) {
	return p.removeFromSettingList("OTHER_LDFLAGS", value, f)
}
