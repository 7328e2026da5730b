package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/eagerloop/eagerloop/analyzer"
)

func main() {
	singlechecker.Main(analyzer.New())
}
