package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// printStatusTable renders the status fields as a two column table.
func printStatusTable(w io.Writer, fields map[string]any) {
	rows := flatten("", fields)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyW, valW := len("FIELD"), len("VALUE")
	for _, k := range keys {
		keyW = max(keyW, len(k))
		valW = max(valW, len(rows[k]))
	}

	sep := fmt.Sprintf("+-%s-+-%s-+\n", strings.Repeat("-", keyW), strings.Repeat("-", valW))
	fmt.Fprint(w, sep)
	fmt.Fprintf(w, "| %s | %s |\n", pad("FIELD", keyW), pad("VALUE", valW))
	fmt.Fprint(w, sep)
	for _, k := range keys {
		fmt.Fprintf(w, "| %s | %s |\n", pad(k, keyW), pad(rows[k], valW))
	}
	fmt.Fprint(w, sep)
}

func flatten(prefix string, fields map[string]any) map[string]string {
	rows := make(map[string]string, len(fields))
	for k, v := range fields {
		if prefix != "" {
			k = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			for nk, nv := range flatten(k, val) {
				rows[nk] = nv
			}
		case float64:
			// Struct numbers are doubles; most of ours are integers.
			if val == float64(int64(val)) {
				rows[k] = fmt.Sprintf("%d", int64(val))
			} else {
				rows[k] = fmt.Sprintf("%.2f", val)
			}
		default:
			rows[k] = fmt.Sprint(val)
		}
	}
	return rows
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
