package diag

import (
	"fmt"
	"io"
	"sort"

	"github.com/batchatco/go-native-netcdf/netcdf"
)

// PrintInfo lists the variables and global attributes of a diagnostic file.
// Used by the `info` command when poking at unfamiliar diag products.
func PrintInfo(w io.Writer, path string) error {
	nc, err := netcdf.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer nc.Close()

	vars := nc.ListVariables()
	sort.Strings(vars)
	fmt.Fprintf(w, "variables in %s:\n", path)
	for _, v := range vars {
		fmt.Fprintf(w, "  %s\n", v)
	}

	attrs := nc.Attributes()
	keys := attrs.Keys()
	if len(keys) > 0 {
		fmt.Fprintln(w, "global attributes:")
		for _, k := range keys {
			val, ok := attrs.Get(k)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s = %v\n", k, val)
		}
	}
	return nil
}
