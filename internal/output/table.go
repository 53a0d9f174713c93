package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats records as human-readable key/value tables.
type TableFormatter struct{}

// FormatRecord formats a single record as a two-column table. The resource
// manifest itself is elided; table output is a summary, yaml/json carry the
// full document.
func (f *TableFormatter) FormatRecord(rec *Record) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "CHANGED\t%t\n", rec.Changed)
	if rec.Message != "" {
		_, _ = fmt.Fprintf(w, "MESSAGE\t%s\n", rec.Message)
	}

	keys := make([]string, 0, len(rec.Extra))
	for k := range rec.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "%s\t%v\n", strings.ToUpper(k), rec.Extra[k])
	}

	_ = w.Flush()
	return buf.String(), nil
}
