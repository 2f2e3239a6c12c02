package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelp(t *testing.T) {
	cases := goldenTestSuite{
		"list":    {Line: "help"},
		"alias":   {Line: "help DIR"},
		"unknown": {Line: "help frobnicate"},
	}

	cases.Run(t)
}

func TestHelp_everyCommand(t *testing.T) {
	term := newTestTerminal(t)
	out := term.mustRun("help")

	for _, spec := range Builtins().Specs() {
		found := false
		for _, line := range out {
			if strings.HasPrefix(line, "  "+spec.Use+" ") {
				found = true
			}
		}
		assert.True(t, found, "help lists %s", spec.Name)
	}
}
