//go:build governance

package core_test

import (
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const modulePath = "github.com/leapstack-labs/sitenav"

// =============================================================================
// COHESION TEST - Core types must be shared by multiple packages
// =============================================================================

// TestGovernance_CoreCohesion verifies that exported identifiers in pkg/core
// are used by more than one package. Single-use types belong to their sole
// consumer.
func TestGovernance_CoreCohesion(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	var corePkg *packages.Package
	for _, p := range pkgs {
		if p.PkgPath == modulePath+"/pkg/core" {
			corePkg = p
			break
		}
	}
	if corePkg == nil {
		t.Fatal("Could not find pkg/core")
	}

	// Only top-level types are checked; constants and functions follow them.
	coreTypes := make(map[string]bool)
	scope := corePkg.Types.Scope()
	for _, name := range scope.Names() {
		if obj := scope.Lookup(name); obj.Exported() && isTypeName(obj.String()) {
			coreTypes[name] = true
		}
	}

	usage := make(map[string]map[string]bool)
	for name := range coreTypes {
		usage[name] = make(map[string]bool)
	}

	for _, p := range pkgs {
		if p.PkgPath == corePkg.PkgPath || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if obj.Pkg() == nil || obj.Pkg().Path() != corePkg.PkgPath || !coreTypes[obj.Name()] {
				continue
			}
			usage[obj.Name()][strings.TrimPrefix(p.PkgPath, modulePath+"/")] = true
		}
	}

	for typeName, importers := range usage {
		switch len(importers) {
		case 0:
			t.Logf("WARNING: Unused Core Type: %s (consider deleting)", typeName)
		case 1:
			for user := range importers {
				t.Errorf("COHESION VIOLATION: 'core.%s' is used ONLY by '%s'.\n"+
					"   Fix: Move type from pkg/core to %s.",
					typeName, user, user)
			}
		}
	}
}

func isTypeName(objString string) bool {
	return strings.HasPrefix(objString, "type ")
}

// =============================================================================
// LAYERING TEST - pkg/ never reaches into internal/
// =============================================================================

// TestGovernance_PublicPackagesAvoidInternal ensures the importable pkg/
// tree stays usable from other modules.
func TestGovernance_PublicPackagesAvoidInternal(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, modulePath+"/pkg/...")
	if err != nil {
		t.Fatalf("Failed to load packages: %v", err)
	}

	for _, p := range pkgs {
		for path := range p.Imports {
			if strings.HasPrefix(path, modulePath+"/internal/") {
				t.Errorf("LAYERING VIOLATION: '%s' imports '%s'",
					strings.TrimPrefix(p.PkgPath, modulePath+"/"),
					strings.TrimPrefix(path, modulePath+"/"))
			}
		}
	}
}
