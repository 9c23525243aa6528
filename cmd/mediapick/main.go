// cmd/mediapick/main.go
package main

import (
	"github.com/bstardust/mediapick/pkg/cli"
)

func main() {
	cli.Execute()
}
