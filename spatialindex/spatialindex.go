// Package spatialindex provides an online k-d tree over node translations, used by the mapper to
// propose loop-closure candidates. It is a snapshot: Build ingests a slice of nodes and constructs
// a fresh tree over them, and a later call to Build discards the previous tree entirely. Callers
// are responsible for rebuilding before every query that needs to see newly-added nodes; the index
// never updates itself incrementally, since incremental k-d tree maintenance is exactly the kind of
// silently-stale-cache bug this package exists to avoid.
package spatialindex

import (
	"sort"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/maltewi/slam3d/posegraph"
)

// point is the kdtree.Comparable stored in the tree: a node's id and its translation.
type point struct {
	id  posegraph.NodeID
	loc r3.Vector
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(point)
	switch d {
	case 0:
		return p.loc.X - q.loc.X
	case 1:
		return p.loc.Y - q.loc.Y
	case 2:
		return p.loc.Z - q.loc.Z
	default:
		panic("spatialindex: dimension out of range")
	}
}

func (p point) Dims() int { return 3 }

// Distance returns the squared Euclidean distance to c, matching the convention expected by
// kdtree.DistKeeper (it compares against a squared radius, avoiding a sqrt per candidate). The
// component differences are rounded to single precision before squaring and summing, matching
// this index's documented single-precision distance contract.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx := float32(p.loc.X - q.loc.X)
	dy := float32(p.loc.Y - q.loc.Y)
	dz := float32(p.loc.Z - q.loc.Z)
	return float64(dx*dx + dy*dy + dz*dz)
}

// points implements kdtree.Interface over a slice of point.
type points []point

func (p points) Index(i int) kdtree.Comparable { return p[i] }
func (p points) Len() int                      { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// Pivot partitions p along dimension d and returns the index of its median, so the tree built on
// top of it is reasonably balanced. It sorts the whole slice rather than doing an in-place
// quickselect: simpler to get right, and node counts in a pose graph are small enough that the
// extra log factor is not worth the risk of a subtly-wrong partition.
func (p points) Pivot(d kdtree.Dim) int {
	sort.Sort(byDim{points: p, dim: d})
	return len(p) / 2
}

type byDim struct {
	points points
	dim    kdtree.Dim
}

func (b byDim) Len() int      { return len(b.points) }
func (b byDim) Swap(i, j int) { b.points[i], b.points[j] = b.points[j], b.points[i] }
func (b byDim) Less(i, j int) bool {
	return b.points[i].Compare(b.points[j], b.dim) < 0
}

// Index is a rebuildable k-d tree over node translations.
type Index struct {
	tree  *kdtree.Tree
	empty bool
}

// New returns an empty, unbuilt Index.
func New() *Index {
	return &Index{empty: true}
}

// Build ingests the given nodes (typically pre-filtered by sensor name) and constructs a fresh
// tree over the translation components of their corrected poses. It destroys whatever tree Build
// previously constructed.
func (idx *Index) Build(nodes []*posegraph.Node) {
	if len(nodes) == 0 {
		idx.tree = nil
		idx.empty = true
		return
	}
	pts := make(points, len(nodes))
	for i, n := range nodes {
		pts[i] = point{id: n.ID(), loc: n.CorrectedPose().Point()}
	}
	idx.tree = kdtree.New(pts, true)
	idx.empty = false
}

// RadiusSearch returns the ids of every node whose stored translation is within Euclidean
// distance r of center. It returns an empty slice, without error, if the index has not been
// built or was built over zero nodes. Distances are computed in single precision (see
// point.Distance). Ordering of results is unspecified but stable across identical inputs.
func (idx *Index) RadiusSearch(center r3.Vector, r float64) []posegraph.NodeID {
	if idx.empty || idx.tree == nil || r <= 0 {
		return nil
	}
	keeper := kdtree.NewDistKeeper(r * r)
	idx.tree.NearestSet(keeper, point{loc: center})

	out := make([]posegraph.NodeID, 0, len(keeper.Heap))
	for _, cd := range keeper.Heap {
		out = append(out, cd.Comparable.(point).id)
	}
	return out
}
