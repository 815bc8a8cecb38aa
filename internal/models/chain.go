package models

type Chain string

const (
	ChainSolana Chain = "solana"
	ChainBSC    Chain = "bsc"
	ChainBase   Chain = "base"
)

func ValidChain(s string) bool {
	switch Chain(s) {
	case ChainSolana, ChainBSC, ChainBase:
		return true
	}
	return false
}
