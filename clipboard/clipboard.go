package clipboard

import cb "github.com/atotto/clipboard"

// Copy puts text on the system clipboard. On linux this needs xclip, xsel
// or wl-copy on PATH.
func Copy(text string) error {
	if cb.Unsupported {
		return errUnsupported
	}
	return cb.WriteAll(text)
}

func Read() (string, error) {
	return cb.ReadAll()
}
