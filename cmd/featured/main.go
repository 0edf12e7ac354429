// Command featured hosts a feature registry behind an HTTP API and keeps
// feature states in the configured store between restarts.
//
//	featured serve           run the API (default)
//	featured migrate         prepare the configured SQL store
//	featured states          print persisted feature states
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
