package queries

import (
	"fmt"
	"strings"

	"ifn-backend/application/ports"
	"ifn-backend/application/queries/bus"
	"ifn-backend/domain/inventory"
)

// VersionedKey builds cache keys that change whenever the data behind a query is replaced.
// Queries spanning several collections include every version they read.
func VersionedKey(catalog ports.StoreCatalog) bus.KeyFunc {
	version := func(name inventory.Name) (uint64, bool) {
		store, err := catalog.Store(name)
		if err != nil {
			return 0, false
		}
		return store.Version(), true
	}

	return func(query bus.Query) (string, bool) {
		switch q := query.(type) {
		case ListRecordsQuery:
			v, ok := version(q.CollectionName())
			if !ok {
				return "", false
			}
			return fmt.Sprintf("records:%s@%d:%q:%q:%s:%q:%d:%d:%s",
				q.CollectionName(), v, q.Text, q.Category, q.Date, q.Preset,
				q.Page, q.PageSize, strings.Join(q.Roles, ",")), true
		case ProblemReportQuery:
			v, ok := version(inventory.Problemas)
			if !ok {
				return "", false
			}
			return fmt.Sprintf("report@%d:%s:%s", v, q.From, q.To), true
		case UniversalSearchQuery:
			var b strings.Builder
			b.WriteString("search")
			for _, name := range []inventory.Name{inventory.Brigadas, inventory.Miembros, inventory.Especies, inventory.Tareas} {
				v, ok := version(name)
				if !ok {
					return "", false
				}
				fmt.Fprintf(&b, ":%s@%d", name, v)
			}
			fmt.Fprintf(&b, ":%q", strings.ToLower(strings.TrimSpace(q.Term)))
			return b.String(), true
		default:
			return "", false
		}
	}
}
