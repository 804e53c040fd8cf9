package main

import (
	"github.com/andongyersst-spec/trading-journal/cmd/tradelog/cmd"
)

func main() {
	cmd.Execute()
}
