// Idiomatic entrypoint for the Cobra CLI that delegates handling to the
// root command in cmd/dscdctl/root.go.

package main

import (
	"github.com/uni-tue-kn/dscd-linux-qdisc/cmd/dscdctl"
)

func main() {
	dscdctl.Execute()
}
