package main

import (
	"github.com/codingworkflow/ai-code-fusion-sub000/cmd"
)

func main() {
	cmd.Execute()
}
