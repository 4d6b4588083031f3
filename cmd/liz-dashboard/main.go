package main

import (
	"os"

	"github.com/TMG-AI/liz-dashboard/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
