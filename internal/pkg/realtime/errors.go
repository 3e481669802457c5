package realtime

import "errors"

var errInvalidFilter = errors.New("filter must have the form column=eq.value")
