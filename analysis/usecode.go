package analysis

import (
	"github.com/vsariola/modtool"
)

// EffectSet flags which effect families a module uses. Index 0..15 are the
// command families 0x0..0xF; index 16..31 are the extended commands
// E0x..EFx. Index 14 (plain 0xE) is never set, as every E command is
// recorded in the extended bank.
type EffectSet [32]bool

// EffectNames gives a display name for every index of an EffectSet.
var EffectNames = [32]string{
	"0 Arpeggio",
	"1 Portamento up",
	"2 Portamento down",
	"3 Tone portamento",
	"4 Vibrato",
	"5 Tone portamento + volume slide",
	"6 Vibrato + volume slide",
	"7 Tremolo",
	"8 Unused",
	"9 Sample offset",
	"A Volume slide",
	"B Position jump",
	"C Set volume",
	"D Pattern break",
	"E Extended",
	"F Set speed",
	"E0 Filter",
	"E1 Fine portamento up",
	"E2 Fine portamento down",
	"E3 Glissando control",
	"E4 Vibrato waveform",
	"E5 Set finetune",
	"E6 Pattern loop",
	"E7 Tremolo waveform",
	"E8 Sync",
	"E9 Retrig note",
	"EA Fine volume slide up",
	"EB Fine volume slide down",
	"EC Note cut",
	"ED Note delay",
	"EE Pattern delay",
	"EF Invert loop",
}

// UsedEffects scans every cell of every pattern. A cell whose whole effect
// is 0 carries no command and is skipped; a bare command 0 with a nonzero
// parameter is an arpeggio.
func UsedEffects(m *modtool.Module) EffectSet {
	var ret EffectSet
	for _, ch := range m.Cells {
		if ch.Effect&0x0FFF == 0 {
			continue
		}
		f := ch.Effect.Family()
		if f == modtool.ExtendedFamily {
			f = 16 + ch.Effect.SubFamily()
		}
		ret[f] = true
	}
	return ret
}

// Names returns the display names of the used effects, in index order.
func (s EffectSet) Names() []string {
	var ret []string
	for i, used := range s {
		if used {
			ret = append(ret, EffectNames[i])
		}
	}
	return ret
}

// Usecode converts the set into the capability mask of the packed runtime
// player: bit i for every used index i, except that command 0 sets bit 8,
// as the player converts command 0 into 8. Bit 0 is reserved for finetune.
func (s EffectSet) Usecode() uint32 {
	var ret uint32
	for i, used := range s {
		if !used {
			continue
		}
		if i == 0 {
			ret |= 1 << 8
		} else {
			ret |= 1 << i
		}
	}
	return ret
}

// Usecode computes the capability mask of the module: the used effects, and
// bit 0 if any sample has a nonzero finetune.
func Usecode(m *modtool.Module) uint32 {
	ret := UsedEffects(m).Usecode()
	for _, si := range m.SampleInfo {
		if si.Finetune != 0 {
			ret |= 1
			break
		}
	}
	return ret
}
