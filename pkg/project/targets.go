package project

import (
	"fmt"
	"path"
	"strings"

	"github.com/jquillard/xcproj/pkg/openstep"
	"github.com/jquillard/xcproj/pkg/pbx"
)

// TargetKind distinguishes the target record variants.
type TargetKind int

const (
	TargetNative TargetKind = iota
	TargetAggregate
	TargetLegacy
)

func (k TargetKind) String() string {
	switch k {
	case TargetNative:
		return "native"
	case TargetAggregate:
		return "aggregate"
	case TargetLegacy:
		return "legacy"
	}
	return "unknown"
}

var targetISAs = []struct {
	isa  string
	kind TargetKind
}{
	{pbx.NativeTarget, TargetNative},
	{pbx.AggregateTarget, TargetAggregate},
	{pbx.LegacyTarget, TargetLegacy},
}

// TargetKindForISA maps a target record discriminator to its kind.
func TargetKindForISA(isa string) (TargetKind, bool) {
	for _, t := range targetISAs {
		if t.isa == isa {
			return t.kind, true
		}
	}
	return 0, false
}

// TargetInfo summarizes one target record for listings.
type TargetInfo struct {
	ID          string
	Name        string
	ProductType string
	Kind        TargetKind
}

// Targets lists every target in the graph, native kinds first, each
// bucket in record order.
func (p *Project) Targets() []TargetInfo {
	var out []TargetInfo
	for _, t := range targetISAs {
		sec := p.Graph.Section(t.isa)
		if sec == nil {
			continue
		}
		for _, f := range sec.Fields() {
			obj, ok := f.Value.(*openstep.Dict)
			if !ok {
				continue
			}
			info := TargetInfo{ID: f.Key, Name: f.Comment, Kind: t.kind}
			if info.Name == "" {
				info.Name, _ = obj.GetString("name")
			}
			info.ProductType, _ = obj.GetString("productType")
			out = append(out, info)
		}
	}
	return out
}

// Target couples a created target's identifier with its record.
type Target struct {
	ID   string
	Dict *openstep.Dict
}

// AddTarget creates a native target named name with the given role
// (application, app_extension, watch2_app, ...), wiring everything a
// working target needs: a Debug/Release configuration list, an
// explicit-type product reference under the Products group, and the
// target record itself. Extension-style roles additionally embed the
// product into their host target's copy phase, and the new target is
// registered as a dependency of the host. subfolder defaults to name
// and seeds the Info.plist path; bundleID is optional.
func (p *Project) AddTarget(name, targetType, subfolder, bundleID string) (*Target, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("target name missing")
	}
	if targetType == "" {
		return nil, fmt.Errorf("target type missing")
	}
	productType, ok := pbx.ProductType(targetType)
	if !ok {
		return nil, fmt.Errorf("invalid target type: %s", targetType)
	}
	if subfolder == "" {
		subfolder = name
	}

	// The host wiring below must see the project as it was before this
	// target joins it.
	hostID, _, hostErr := p.FirstTarget()
	hasHost := hostErr == nil

	listLabel := `Build configuration list for PBXNativeTarget "` + name + `"`
	listID := p.addConfigurationList([]configurationEntry{
		{name: "Debug", settings: targetBuildSettings(name, subfolder, bundleID, true)},
		{name: "Release", settings: targetBuildSettings(name, subfolder, bundleID, false)},
	}, "Release", listLabel)

	productFileType, _ := pbx.ProductFileType(productType)
	product, err := p.AddProductFile(name, FileOptions{Group: "Copy Files", ExplicitType: productFileType})
	if err != nil {
		return nil, err
	}
	p.addBuildFile(product)

	t := openstep.NewDict()
	t.Set("isa", openstep.String(pbx.NativeTarget))
	t.SetWithComment("buildConfigurationList", openstep.String(listID), listLabel)
	t.Set("buildPhases", &openstep.Array{})
	t.Set("buildRules", &openstep.Array{})
	t.Set("dependencies", &openstep.Array{})
	t.Set("name", openstep.String(name))
	t.Set("productName", openstep.String(name))
	t.SetWithComment("productReference", openstep.String(product.ID), product.Basename)
	t.Set("productType", openstep.String(productType))

	id := p.Graph.NewID()
	p.Graph.Add(pbx.NativeTarget, id, t, name)

	proj, err := p.FirstProject()
	if err != nil {
		return nil, err
	}
	targets, ok := proj.GetArray("targets")
	if !ok {
		targets = &openstep.Array{}
		proj.Set("targets", targets)
	}
	targets.Append(openstep.String(id), name)

	if err := p.embedTargetProduct(name, targetType, product, hostID, hasHost); err != nil {
		return nil, err
	}

	if targetType == "watch2_extension" {
		if watchID, _, ok := p.targetByProductType("com.apple.product-type.application.watchapp2"); ok {
			if err := p.AddTargetDependency(watchID, []string{id}); err != nil {
				return nil, err
			}
		}
	} else if hasHost {
		if err := p.AddTargetDependency(hostID, []string{id}); err != nil {
			return nil, err
		}
	}

	return &Target{ID: id, Dict: t}, nil
}

// embedTargetProduct places a freshly created target's product into
// the copy phase of whichever target hosts it. Roles without a host
// convention, or projects without a host target, embed nothing.
func (p *Project) embedTargetProduct(name, targetType string, product *pbx.FileRef, hostID string, hasHost bool) error {
	destination, ok := pbx.DestinationForTargetType(targetType)
	if !ok {
		return nil
	}

	var phaseName, dstPath, host string
	switch targetType {
	case "app_extension":
		if !hasHost {
			return nil
		}
		host, phaseName = hostID, "Copy Files"
	case "watch2_app":
		if !hasHost {
			return nil
		}
		host, phaseName = hostID, "Embed Watch Content"
		dstPath = "$(CONTENTS_FOLDER_PATH)/Watch"
	case "watch2_extension":
		watchID, _, ok := p.targetByProductType("com.apple.product-type.application.watchapp2")
		if !ok {
			return nil
		}
		host, phaseName = watchID, "Embed App Extensions"
	default:
		return nil
	}

	_, phase, err := p.ensureCopyPhase(host, phaseName, destination, dstPath)
	if err != nil {
		return err
	}
	appendPhaseFile(phase, product.BuildID, product.BuildLabel())
	return nil
}

// targetBuildSettings assembles the conventional settings block for a
// generated configuration. Debug additionally defines DEBUG=1.
func targetBuildSettings(name, subfolder, bundleID string, debug bool) *openstep.Dict {
	d := openstep.NewDict()
	if debug {
		defs := &openstep.Array{}
		defs.Append(openstep.String("DEBUG=1"), "")
		defs.Append(openstep.String(inherited), "")
		d.Set("GCC_PREPROCESSOR_DEFINITIONS", defs)
	}
	d.Set("INFOPLIST_FILE", openstep.String(path.Join(subfolder, subfolder+"-Info.plist")))
	d.Set("LD_RUNPATH_SEARCH_PATHS", openstep.String("$(inherited) @executable_path/Frameworks @executable_path/../../Frameworks"))
	if bundleID != "" {
		d.Set("PRODUCT_BUNDLE_IDENTIFIER", openstep.String(bundleID))
	}
	d.Set("PRODUCT_NAME", openstep.String(name))
	d.Set("SKIP_INSTALL", openstep.String("YES"))
	return d
}

type configurationEntry struct {
	name     string
	settings *openstep.Dict
}

// addConfigurationList creates one build-configuration record per
// entry plus the list record tying them together, returning the list
// identifier.
func (p *Project) addConfigurationList(configs []configurationEntry, defaultName, comment string) string {
	refs := &openstep.Array{}
	for _, c := range configs {
		obj := openstep.NewDict()
		obj.Set("isa", openstep.String(pbx.BuildConfiguration))
		obj.Set("buildSettings", c.settings)
		obj.Set("name", openstep.String(c.name))
		id := p.Graph.NewID()
		p.Graph.Add(pbx.BuildConfiguration, id, obj, c.name)
		refs.Append(openstep.String(id), c.name)
	}

	list := openstep.NewDict()
	list.Set("isa", openstep.String(pbx.ConfigurationList))
	list.Set("buildConfigurations", refs)
	list.Set("defaultConfigurationIsVisible", openstep.String("0"))
	list.Set("defaultConfigurationName", openstep.String(defaultName))
	listID := p.Graph.NewID()
	p.Graph.Add(pbx.ConfigurationList, listID, list, comment)
	return listID
}

// targetByProductType finds the first native target producing the
// given product type.
func (p *Project) targetByProductType(productType string) (string, *openstep.Dict, bool) {
	sec := p.Graph.Section(pbx.NativeTarget)
	if sec == nil {
		return "", nil, false
	}
	for _, f := range sec.Fields() {
		obj, ok := f.Value.(*openstep.Dict)
		if !ok {
			continue
		}
		if pt, _ := obj.GetString("productType"); pt == productType {
			return f.Key, obj, true
		}
	}
	return "", nil, false
}

// AddTargetDependency records that targetID depends on each of the
// dependents: one container-item proxy and one dependency record per
// edge, appended to targetID's dependency list. Every identifier must
// name an existing native target.
func (p *Project) AddTargetDependency(targetID string, dependents []string) error {
	target, ok := p.NativeTargetByKey(targetID)
	if !ok {
		return fmt.Errorf("invalid target: %s", targetID)
	}
	for _, dep := range dependents {
		if _, ok := p.NativeTargetByKey(dep); !ok {
			return fmt.Errorf("invalid target: %s", dep)
		}
	}

	deps, ok := target.GetArray("dependencies")
	if !ok {
		deps = &openstep.Array{}
		target.Set("dependencies", deps)
	}
	rootID := p.Graph.RootObjectID()
	rootComment := p.Graph.Root().Comment("rootObject")

	for _, dep := range dependents {
		depObj, _ := p.NativeTargetByKey(dep)
		depName := p.Graph.Comment(dep)
		if depName == "" {
			depName, _ = depObj.GetString("name")
		}

		proxy := openstep.NewDict()
		proxy.Set("isa", openstep.String(pbx.ContainerItemProxy))
		proxy.SetWithComment("containerPortal", openstep.String(rootID), rootComment)
		proxy.Set("proxyType", openstep.String("1"))
		proxy.Set("remoteGlobalIDString", openstep.String(dep))
		proxy.Set("remoteInfo", openstep.String(depName))
		proxyID := p.Graph.NewID()
		p.Graph.Add(pbx.ContainerItemProxy, proxyID, proxy, pbx.ContainerItemProxy)

		edge := openstep.NewDict()
		edge.Set("isa", openstep.String(pbx.TargetDependency))
		edge.SetWithComment("target", openstep.String(dep), depName)
		edge.SetWithComment("targetProxy", openstep.String(proxyID), pbx.ContainerItemProxy)
		edgeID := p.Graph.NewID()
		p.Graph.Add(pbx.TargetDependency, edgeID, edge, pbx.TargetDependency)

		deps.Append(openstep.String(edgeID), pbx.TargetDependency)
	}
	return nil
}
