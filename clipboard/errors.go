package clipboard

import "errors"

var errUnsupported = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")
