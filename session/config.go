package session

// Config is everything one run needs to know. DefaultConfig reproduces the
// original tool: sample.wav in, output.txt out, a seven-word lyric.
type Config struct {
	SamplePath string
	OutputPath string
	Words      []string
}

func DefaultWords() []string {
	return []string{"black", "then", "white", "are", "all", "I", "see"}
}

func DefaultConfig() Config {
	return Config{
		SamplePath: "sample.wav",
		OutputPath: "output.txt",
		Words:      DefaultWords(),
	}
}
