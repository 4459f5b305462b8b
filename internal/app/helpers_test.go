package app

import (
	"strings"

	"github.com/bft-labs/logship/internal/batch"
)

func newSmallAssembler(maxBytes int) *batch.Assembler {
	return batch.NewAssembler(maxBytes)
}

func splitLines(body string) []string {
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}
