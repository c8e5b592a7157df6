// Package analysis derives read-only information from a module: note names
// for periods, the effects in use and the packed runtime usecode, sample
// statistics and a summary of the pattern data.
package analysis

import (
	"github.com/vsariola/modtool"
	"github.com/vsariola/modtool/edit"
)

type (
	// Summary is the top level overview of a module.
	Summary struct {
		Name        string
		Origin      modtool.Origin
		Length      int
		UsedSamples int
		Patterns    int
		Channels    int
	}

	// SampleStatistics summarizes the used sample slots. Lengths and repeat
	// fields are in bytes.
	SampleStatistics struct {
		Length       Stats[int]
		Finetune     Stats[int8]
		Volume       Stats[uint8]
		RepeatStart  Stats[int]
		RepeatLength Stats[int]
		Unused       []int
		Warnings     []edit.IntegrityWarning
	}

	// PatternInfo collects the pattern related findings of a module.
	PatternInfo struct {
		PlayOrder []uint8
		Unused    []int
		Empty     []int
		Periods   []PeriodCount
		Effects   EffectSet
		Usecode   uint32
	}
)

// Summarize returns the summary of a module.
func Summarize(m *modtool.Module) Summary {
	return Summary{
		Name:        m.Name,
		Origin:      m.Origin,
		Length:      int(m.Length),
		UsedSamples: m.UsedSampleCount(),
		Patterns:    len(m.Patterns),
		Channels:    m.NumChannels(),
	}
}

// EmptyPatterns returns the indices of the patterns in which every cell is
// empty.
func EmptyPatterns(m *modtool.Module) []int {
	var ret []int
	for i, p := range m.Patterns {
		if p.IsEmpty() {
			ret = append(ret, i)
		}
	}
	return ret
}

// SampleStats computes the statistics of the used (length > 0) samples and
// lists the samples that no pattern refers to.
func SampleStats(m *modtool.Module) SampleStatistics {
	var ret SampleStatistics
	for _, si := range m.SampleInfo {
		if !si.Used() {
			continue
		}
		ret.Length.Update(si.ByteLength())
		ret.Finetune.Update(si.Finetune)
		ret.Volume.Update(si.Volume)
		ret.RepeatStart.Update(int(si.RepeatStart) * 2)
		ret.RepeatLength.Update(int(si.RepeatLength) * 2)
	}
	ret.Length.Finalize()
	ret.Finetune.Finalize()
	ret.Volume.Finalize()
	ret.RepeatStart.Finalize()
	ret.RepeatLength.Finalize()
	ret.Unused, ret.Warnings = edit.FindUnusedSamples(m)
	return ret
}

// Patterns gathers the pattern info of a module.
func Patterns(m *modtool.Module) PatternInfo {
	effects := UsedEffects(m)
	return PatternInfo{
		PlayOrder: m.ActivePositions(),
		Unused:    edit.FindUnusedPatterns(m),
		Empty:     EmptyPatterns(m),
		Periods:   UsedPeriods(m),
		Effects:   effects,
		Usecode:   Usecode(m),
	}
}
