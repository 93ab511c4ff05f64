package nixgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUsageTrackerUsedEmpty(t *testing.T) {
	tracker := &UsageTracker{}
	require.Empty(t, tracker.Used())
}

func TestUsageTrackerUsedSortedAndFiltered(t *testing.T) {
	tracker := &UsageTracker{ToList: true, MakeError: true, DivideInt: true}
	require.Equal(t, []string{"divideInt", "makeError", "toList"}, tracker.Used())
}

func TestUsageTrackerAllFlags(t *testing.T) {
	tracker := &UsageTracker{
		ToList: true, ListPrepend: true, ToBitArray: true, SizedInt: true,
		StringBits: true, CodepointBits: true, ParseNumber: true, ParseEscape: true,
		DivideInt: true, DivideFloat: true, RemainderInt: true, MakeError: true, SeqAll: true,
	}
	require.Len(t, tracker.Used(), 13)
}
