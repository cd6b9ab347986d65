package chunkstore

import (
	"strconv"

	"github.com/autarkie-go/autarkie/pkg/types"
)

func formatTypeIDHex(id types.TypeId) string {
	return strconv.FormatUint(uint64(id), 16)
}

func formatContentHashHex(hash uint64) string {
	return strconv.FormatUint(hash, 16)
}

func parseTypeIDHex(s string) (types.TypeId, bool) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return types.TypeId(v), true
}
