package main

import (
	"encoding/json"
	"fmt"
)

// printJSON renders v as indented JSON to stdout - the CLI's one output
// format, scriptable rather than aligned-for-humans.
func printJSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(b))
	return nil
}
