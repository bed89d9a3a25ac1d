// Command rowtable renders CSV, Excel and SQLite data
// as HTML or text table using a YAML table config.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
