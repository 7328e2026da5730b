package analyzer

import (
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAll(t *testing.T) {
	a := New()
	analysistest.Run(t, analysistest.TestData(), a, "p")
}
