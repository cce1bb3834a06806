package inventory

import (
	"sort"
	"strings"

	"github.com/jhoicas/Inventario-wms/internal/domain/entity"
)

const pathSep = "/"

// BuildPath construye el path materializado de un nodo a partir del path del padre.
// Para raíces parentPath es vacío.
func BuildPath(parentPath, id string) string {
	if parentPath == "" {
		return pathSep + id + pathSep
	}
	return parentPath + id + pathSep
}

// AncestorIDs devuelve los ids del path ordenados de la raíz al propio nodo (incluido).
func AncestorIDs(path string) []string {
	parts := strings.Split(strings.Trim(path, pathSep), pathSep)
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// IsWithin indica si path está en el subárbol de rootPath (incluido el propio nodo).
func IsWithin(path, rootPath string) bool {
	return rootPath != "" && strings.HasPrefix(path, rootPath)
}

// ChainDiff separa las cadenas de ancestros de origen y destino descartando los ancestros comunes.
// Un movimiento entre dos nodos solo altera los contadores de los nodos no compartidos.
func ChainDiff(sourcePath, targetPath string) (sourceOnly, targetOnly []string) {
	src := AncestorIDs(sourcePath)
	tgt := AncestorIDs(targetPath)
	i := 0
	for i < len(src) && i < len(tgt) && src[i] == tgt[i] {
		i++
	}
	return src[i:], tgt[i:]
}

// BuildTree arma el árbol anidado de root con la lista plana de descendientes.
// Los nodos fuera del subárbol se ignoran; los hermanos quedan ordenados por referencia.
func BuildTree(root *entity.Location, descendants []*entity.Location) *entity.LocationNode {
	rootNode := &entity.LocationNode{Location: root}
	nodes := map[string]*entity.LocationNode{root.ID: rootNode}

	sorted := make([]*entity.Location, 0, len(descendants))
	for _, d := range descendants {
		if d.ID != root.ID && IsWithin(d.Path, root.Path) {
			sorted = append(sorted, d)
		}
	}
	// Los padres tienen menor profundidad: procesarlos primero garantiza que existan.
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Depth != sorted[j].Depth {
			return sorted[i].Depth < sorted[j].Depth
		}
		return sorted[i].Reference < sorted[j].Reference
	})
	for _, d := range sorted {
		parent, ok := nodes[d.ParentID]
		if !ok {
			continue
		}
		node := &entity.LocationNode{Location: d}
		parent.Children = append(parent.Children, node)
		nodes[d.ID] = node
	}
	return rootNode
}
