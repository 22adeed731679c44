package lang

// DefaultVoice is the prebuilt voice used when none is configured.
const DefaultVoice = "Kore"

// Voices lists the prebuilt speech voices offered in the UI.
var Voices = []string{
	"Kore",
	"Puck",
	"Charon",
	"Fenrir",
	"Aoede",
	"Leda",
	"Orus",
	"Zephyr",
}

// IsVoice reports whether name is one of the prebuilt voices.
func IsVoice(name string) bool {
	for _, v := range Voices {
		if v == name {
			return true
		}
	}
	return false
}

// NextVoice returns the voice after current, wrapping around. Unknown
// voices restart at the first entry.
func NextVoice(current string) string {
	for i, v := range Voices {
		if v == current {
			return Voices[(i+1)%len(Voices)]
		}
	}
	return Voices[0]
}
