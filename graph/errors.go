package graph

import (
	"fmt"

	"github.com/ThePletch/steam-vr-wheel/errkind"
)

var errConstructionSentinel = errkind.Construction

func construction(kind Kind, format string, args ...any) error {
	return &ConstructionError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}
