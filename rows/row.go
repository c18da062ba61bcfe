// Package rows provides tabular data records used to instantiate templates.
package rows

import (
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// Row maps column name to value for a single record.
type Row map[string]string

// Canonical returns stable identity of the row: non-empty pairs sorted by
// column name. Two rows differing only in empty columns are the same.
func Canonical(r Row) string {
	keys := make([]string, 0, len(r))
	for k, v := range r {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Sort(natural.StringSlice(keys))

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteByte(':')
		sb.WriteString(strconv.Quote(r[k]))
	}
	return sb.String()
}
