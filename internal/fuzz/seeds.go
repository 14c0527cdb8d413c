package fuzztests

import "testing"

const (
	maxFuzzInput = 4 << 10 // longer scripts add nothing but time
)

// scriptSeeds are hand-picked op scripts: allocation bursts, prototype
// chains, symbol keys, array truncation and collections between them.
var scriptSeeds = [][]byte{
	{},
	{0, 0, 0, 0, 15},
	{0, 1, 2, 3, 4, 5, 15, 0, 6, 7, 15},
	{2, 2, 2, 8, 8, 8, 9, 15, 9, 15},
	{4, 4, 0, 0, 6, 6, 6, 15, 11, 11, 15},
	{3, 0, 10, 10, 12, 15, 13, 15, 14, 15},
	{5, 0, 1, 7, 1, 7, 1, 12, 15, 12, 12, 15},
}

func addScriptSeeds(f *testing.F) {
	for _, s := range scriptSeeds {
		f.Add(s)
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
