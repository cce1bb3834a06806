package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
	"github.com/jhoicas/Inventario-wms/internal/domain/inventory"
)

func TestBuildPath_RaizEHijo(t *testing.T) {
	root := inventory.BuildPath("", "a")
	assert.Equal(t, "/a/", root)
	assert.Equal(t, "/a/b/", inventory.BuildPath(root, "b"))
}

func TestAncestorIDs_RaizPrimero(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, inventory.AncestorIDs("/a/b/c/"))
	assert.Empty(t, inventory.AncestorIDs(""))
}

func TestIsWithin(t *testing.T) {
	assert.True(t, inventory.IsWithin("/a/b/", "/a/"))
	assert.True(t, inventory.IsWithin("/a/", "/a/"), "el propio nodo está en su subárbol")
	assert.False(t, inventory.IsWithin("/ab/", "/a/"), "prefijo de id no es ancestro")
	assert.False(t, inventory.IsWithin("/a/", ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// ChainDiff: solo los nodos no compartidos cambian de contador.
// ──────────────────────────────────────────────────────────────────────────────

func TestChainDiff_HermanosComparteRaiz(t *testing.T) {
	src, tgt := inventory.ChainDiff("/r/x/", "/r/y/")
	assert.Equal(t, []string{"x"}, src)
	assert.Equal(t, []string{"y"}, tgt)
}

func TestChainDiff_AreasDistintas(t *testing.T) {
	src, tgt := inventory.ChainDiff("/r1/x/", "/r2/")
	assert.Equal(t, []string{"r1", "x"}, src)
	assert.Equal(t, []string{"r2"}, tgt)
}

func TestChainDiff_DeHijoAAncestro(t *testing.T) {
	src, tgt := inventory.ChainDiff("/r/x/y/", "/r/")
	assert.Equal(t, []string{"x", "y"}, src)
	assert.Empty(t, tgt, "el ancestro ya contaba al ítem")
}

func TestChainDiff_SinOrigen(t *testing.T) {
	src, tgt := inventory.ChainDiff("", "/r/x/")
	assert.Empty(t, src)
	assert.Equal(t, []string{"r", "x"}, tgt)
}

func TestBuildTree_AnidaPorProfundidad(t *testing.T) {
	root := &entity.Location{ID: "r", Path: "/r/", Depth: 0, Reference: "R"}
	a := &entity.Location{ID: "a", ParentID: "r", Path: "/r/a/", Depth: 1, Reference: "B"}
	b := &entity.Location{ID: "b", ParentID: "r", Path: "/r/b/", Depth: 1, Reference: "A"}
	c := &entity.Location{ID: "c", ParentID: "a", Path: "/r/a/c/", Depth: 2, Reference: "C"}
	outside := &entity.Location{ID: "z", ParentID: "q", Path: "/q/z/", Depth: 1}

	tree := inventory.BuildTree(root, []*entity.Location{c, a, outside, b, root})

	require.Len(t, tree.Children, 2)
	assert.Equal(t, "b", tree.Children[0].Location.ID, "hermanos ordenados por referencia")
	assert.Equal(t, "a", tree.Children[1].Location.ID)
	require.Len(t, tree.Children[1].Children, 1)
	assert.Equal(t, "c", tree.Children[1].Children[0].Location.ID)
}
