// Package gm holds the General MIDI program-number to instrument-name
// table. The ordering and family grouping are a compatibility surface:
// scores authored against standard GM program numbers rely on them.
package gm

// DefaultIdentity is the fallback timbre used whenever a program number
// is out of range or an instrument cannot be resolved or loaded.
const DefaultIdentity = "acoustic grand piano"

// names lists the 128 canonical GM identities, grouped in the standard
// GM families of eight programs each.
var names = [128]string{
	// Piano (0-7)
	"acoustic grand piano",
	"bright acoustic piano",
	"electric grand piano",
	"honky-tonk piano",
	"electric piano 1",
	"electric piano 2",
	"harpsichord",
	"clavinet",
	// Chromatic percussion (8-15)
	"celesta",
	"glockenspiel",
	"music box",
	"vibraphone",
	"marimba",
	"xylophone",
	"tubular bells",
	"dulcimer",
	// Organ (16-23)
	"drawbar organ",
	"percussive organ",
	"rock organ",
	"church organ",
	"reed organ",
	"accordion",
	"harmonica",
	"tango accordion",
	// Guitar (24-31)
	"acoustic guitar nylon",
	"acoustic guitar steel",
	"electric guitar jazz",
	"electric guitar clean",
	"electric guitar muted",
	"overdriven guitar",
	"distortion guitar",
	"guitar harmonics",
	// Bass (32-39)
	"acoustic bass",
	"electric bass finger",
	"electric bass pick",
	"fretless bass",
	"slap bass 1",
	"slap bass 2",
	"synth bass 1",
	"synth bass 2",
	// Strings (40-47)
	"violin",
	"viola",
	"cello",
	"contrabass",
	"tremolo strings",
	"pizzicato strings",
	"orchestral harp",
	"timpani",
	// Ensemble (48-55)
	"string ensemble 1",
	"string ensemble 2",
	"synth strings 1",
	"synth strings 2",
	"choir aahs",
	"voice oohs",
	"synth voice",
	"orchestra hit",
	// Brass (56-63)
	"trumpet",
	"trombone",
	"tuba",
	"muted trumpet",
	"french horn",
	"brass section",
	"synth brass 1",
	"synth brass 2",
	// Reed (64-71)
	"soprano sax",
	"alto sax",
	"tenor sax",
	"baritone sax",
	"oboe",
	"english horn",
	"bassoon",
	"clarinet",
	// Pipe (72-79)
	"piccolo",
	"flute",
	"recorder",
	"pan flute",
	"blown bottle",
	"shakuhachi",
	"whistle",
	"ocarina",
	// Synth lead (80-87)
	"lead 1 square",
	"lead 2 sawtooth",
	"lead 3 calliope",
	"lead 4 chiff",
	"lead 5 charang",
	"lead 6 voice",
	"lead 7 fifths",
	"lead 8 bass lead",
	// Synth pad (88-95)
	"pad 1 new age",
	"pad 2 warm",
	"pad 3 polysynth",
	"pad 4 choir",
	"pad 5 bowed",
	"pad 6 metallic",
	"pad 7 halo",
	"pad 8 sweep",
	// Synth effects (96-103)
	"fx 1 rain",
	"fx 2 soundtrack",
	"fx 3 crystal",
	"fx 4 atmosphere",
	"fx 5 brightness",
	"fx 6 goblins",
	"fx 7 echoes",
	"fx 8 sci-fi",
	// Ethnic (104-111)
	"shamisen",
	"sitar",
	"banjo",
	"koto",
	"kalimba",
	"bag pipe",
	"fiddle",
	"shanai",
	// Percussive (112-119)
	"tinkle bell",
	"agogo",
	"steel drums",
	"woodblock",
	"taiko drum",
	"melodic tom",
	"synth drum",
	"reverse cymbal",
	// Sound effects (120-127)
	"guitar fret noise",
	"breath noise",
	"seashore",
	"bird tweet",
	"telephone ring",
	"helicopter",
	"applause",
	"gunshot",
}

// IdentityFor maps a GM program number to its canonical instrument name.
// The mapping is total: any program outside [0,127] resolves to
// DefaultIdentity, never to an error.
func IdentityFor(program int) string {
	if program < 0 || program >= len(names) {
		return DefaultIdentity
	}
	return names[program]
}
