package cms

import (
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/exp/maps"
)

// pathKey is the (InKind, OutKind) key the Conversion Path Registry is
// indexed by.
type pathKey struct {
	From, To Kind
}

// registry holds the process-wide conversion-path and CAT-method tables.
// Mutations copy-on-write via maps.Clone so Converters that captured an
// earlier snapshot (through the closures built at assembly time) keep
// seeing the view that was current when they were built, per the
// versioned-snapshot discipline every registry in this package follows.
type registry struct {
	mu    sync.RWMutex
	paths map[pathKey][]*Primitive
	cats  map[CATMethod]*Cat
}

var (
	globalRegistry     *registry
	globalRegistryOnce sync.Once
	registryLogger     = slog.Default()
)

// SetLogger installs the *slog.Logger used for registry and planner
// diagnostics. Passing nil restores slog.Default(). Never called on the
// Convert() hot path.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	registryLogger = l
}

func defaultPaths() map[pathKey][]*Primitive {
	add := func(m map[pathKey][]*Primitive, from, to Kind, build func(*Colorspace) (StageFunc, error)) {
		k := pathKey{from, to}
		m[k] = append(m[k], &Primitive{From: from, To: to, Build: build})
	}

	m := make(map[pathKey][]*Primitive)
	add(m, KindXYZ, KindLab, buildXYZToLab)
	add(m, KindLab, KindXYZ, buildLabToXYZ)
	add(m, KindLab, KindLCHab, buildLabToLCHab)
	add(m, KindLCHab, KindLab, buildLCHabToLab)
	add(m, KindXYZ, KindLuv, buildXYZToLuv)
	add(m, KindLuv, KindXYZ, buildLuvToXYZ)
	add(m, KindLuv, KindLCHuv, buildLuvToLCHuv)
	add(m, KindLCHuv, KindLuv, buildLCHuvToLuv)
	add(m, KindXYZ, KindXyY, buildXYZToXyY)
	add(m, KindXyY, KindXYZ, buildXyYToXYZ)
	add(m, KindRGB, KindXYZ, buildRGBToXYZ)
	add(m, KindXYZ, KindRGB, buildXYZToRGB)
	add(m, KindRGB, KindHSV, buildRGBToHSV)
	add(m, KindHSV, KindRGB, buildHSVToRGB)
	add(m, KindRGB, KindHSL, buildRGBToHSL)
	add(m, KindHSL, KindRGB, buildHSLToRGB)
	add(m, KindRGB, KindYCbCr, buildRGBToYCbCr(YCbCrRec709))
	add(m, KindYCbCr, KindRGB, buildYCbCrToRGB(YCbCrRec709))
	add(m, KindRGB, KindCMYK, buildRGBToCMYK)
	add(m, KindCMYK, KindRGB, buildCMYKToRGB)
	add(m, KindGray, KindXYZ, buildGrayToXYZ)
	add(m, KindXYZ, KindGray, buildXYZToGray)
	return m
}

func defaultCats() map[CATMethod]*Cat {
	return map[CATMethod]*Cat{
		Bradford:    catBradford,
		VonKries:    catVonKries,
		XyzScaling:  catXyzScaling,
		CAT02Method: catCAT02,
	}
}

// Init performs the one-shot, concurrency-safe discovery of the default
// conversion paths and CAT methods. It is idempotent and safe to call
// from multiple goroutines racing on first Converter construction; only
// one winner actually populates the registry.
func Init() {
	globalRegistryOnce.Do(func() {
		globalRegistry = &registry{
			paths: defaultPaths(),
			cats:  defaultCats(),
		}
		registryLogger.Debug("cms registry initialised",
			"paths", len(globalRegistry.paths), "cats", len(globalRegistry.cats))
	})
}

func ensureInit() *registry {
	Init()
	return globalRegistry
}

// ConversionPaths returns a snapshot of the registered (InKind, OutKind)
// pairs. The returned map must not be mutated by the caller.
func ConversionPaths() map[pathKey][]*Primitive {
	r := ensureInit()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.paths)
}

// ChromaticAdaptions returns a snapshot of the registered CAT methods.
func ChromaticAdaptions() map[CATMethod]*Cat {
	r := ensureInit()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.cats)
}

// AddConversionPath registers an additional primitive for (from, to).
// Takes effect only for Converters constructed after this call returns;
// already-assembled pipelines keep using the snapshot they captured.
func AddConversionPath(from, to Kind, build func(*Colorspace) (StageFunc, error)) {
	r := ensureInit()
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := maps.Clone(r.paths)
	k := pathKey{from, to}
	clone[k] = append(append([]*Primitive{}, clone[k]...), &Primitive{From: from, To: to, Build: build})
	r.paths = clone
	registryLogger.Info("conversion path added", "from", from, "to", to)
}

// RemoveConversionPath drops every registered primitive for (from, to).
func RemoveConversionPath(from, to Kind) {
	r := ensureInit()
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := maps.Clone(r.paths)
	delete(clone, pathKey{from, to})
	r.paths = clone
	registryLogger.Info("conversion path removed", "from", from, "to", to)
}

// AddChromaticAdaption registers a custom CAT method.
func AddChromaticAdaption(method CATMethod, cat *Cat) {
	r := ensureInit()
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := maps.Clone(r.cats)
	clone[method] = cat
	r.cats = clone
	registryLogger.Info("chromatic adaption added", "method", method)
}

// RemoveChromaticAdaption drops a registered CAT method.
func RemoveChromaticAdaption(method CATMethod) {
	r := ensureInit()
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := maps.Clone(r.cats)
	delete(clone, method)
	r.cats = clone
	registryLogger.Info("chromatic adaption removed", "method", method)
}

// findPath runs a breadth-first search over the snapshot of registered
// conversion paths to find the shortest chain of Kinds from from to to.
// BFS shortest-path naturally satisfies the "prefer fewer stages"
// tie-break; ties among equal-length paths are broken by Kind value
// order, since ranging over paths (a map) to build the adjacency lists
// would otherwise make the tie-break depend on Go's randomized map
// iteration order and so vary across otherwise-identical calls.
func findPath(paths map[pathKey][]*Primitive, from, to Kind) ([]Kind, bool) {
	if from == to {
		return []Kind{from}, true
	}

	type frame struct {
		kind Kind
		path []Kind
	}
	visited := map[Kind]bool{from: true}
	queue := []frame{{from, []Kind{from}}}

	neighbors := make(map[Kind][]Kind)
	for k := range paths {
		neighbors[k.From] = append(neighbors[k.From], k.To)
	}
	for from := range neighbors {
		sort.Slice(neighbors[from], func(i, j int) bool { return neighbors[from][i] < neighbors[from][j] })
	}

	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for _, next := range neighbors[f.kind] {
			if visited[next] {
				continue
			}
			path := append(append([]Kind{}, f.path...), next)
			if next == to {
				return path, true
			}
			visited[next] = true
			queue = append(queue, frame{next, path})
		}
	}
	return nil, false
}
