package domain

// BatteryShaw1986 is the name of the built-in Shaw (1986) battery
const BatteryShaw1986 = "shaw1986"

// Battery is a fixed, ordered list of word slugs used by a data-entry task
type Battery struct {
	Name  string   `json:"name" yaml:"name"`
	Slugs []string `json:"slugs" yaml:"slugs"`
}

// Shaw1986 returns the 100-item wordlist of Shaw (1986). The final slug
// contains a space and is kept as recorded.
func Shaw1986() Battery {
	return Battery{
		Name: BatteryShaw1986,
		Slugs: []string{
			"man", "woman", "i", "thou", "we-incl",
			"all", "head", "hair", "eye", "nose",
			"ear", "tooth", "tongue", "neck", "mouth",
			"arm", "breast", "belly", "leg", "knee",
			"skin", "blood", "fat", "bone", "back",
			"shoulder", "sun", "moon", "star", "cloud",
			"rain", "night", "water", "ground", "stone",
			"pig", "mountain", "fire", "smoke", "ashes",
			"road", "tree", "root", "bark", "dog",
			"tail", "bird", "feather", "egg", "fish",
			"big", "small", "good", "long", "red",
			"white", "black", "yellow", "green", "warm",
			"cold", "full", "new", "to-eat", "cassowary",
			"to-stand", "to-sit", "to-speak", "to-walk", "to-give",
			"to-sleep", "to-lie", "to-see", "to-hear", "to-swim",
			"to-come", "to-fly", "to-bite", "name", "wing",
			"who", "what", "to-burn", "louse", "many",
			"this", "that", "one", "two", "to-know",
			"to-kill", "not", "leaf", "meat", "banana",
			"claw", "father", "seed", "mother", "string bag",
		},
	}
}

// Batteries indexes batteries by name, starting from the built-ins.
// Entries in extra replace built-ins of the same name.
func Batteries(extra ...Battery) map[string]Battery {
	out := map[string]Battery{BatteryShaw1986: Shaw1986()}
	for _, b := range extra {
		out[b.Name] = b
	}
	return out
}
