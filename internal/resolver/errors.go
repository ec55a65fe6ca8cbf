package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a missing converted model artifact. The fields
// carry everything the remediation block prints; callers map it to the
// vendor "bad data" result code.
type NotFoundError struct {
	OriginalPath string // path the application requested
	Probed       string // path the shim actually looked for
	ModelDir     string // active redirect directory, empty if none
	Suffix       string // suffix that was appended
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model not found: %s (requested %s)", e.Probed, e.OriginalPath)
}

// IsNotFound reports whether err indicates a missing model artifact.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Remediation renders the boxed operator-facing diagnostic. Helping the
// operator discover which converted model file is missing is the point of
// the shim, so this block is part of the contract, not decoration.
func (e *NotFoundError) Remediation() string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}
	line("")
	line("╔══════════════════════════════════════════════════════════╗")
	line("║  neuron-shim: MODEL FILE NOT FOUND                       ║")
	line("╠══════════════════════════════════════════════════════════╣")
	line("║  Application requested:                                  ║")
	line("║    %s", e.OriginalPath)
	line("║  Shim looked for:                                        ║")
	line("║    %s", e.Probed)
	if e.ModelDir != "" {
		line("║  model_dir is set to:                                    ║")
		line("║    %s", e.ModelDir)
		line("║  To fix, place your converted model there:               ║")
		line("║    cp your_model%s %s", e.Suffix, e.Probed)
	} else {
		line("║  To fix, place the converted model next to the original: ║")
		line("║    cp your_model%s %s", e.Suffix, e.Probed)
		line("║  Or set model_dir in neuron-shim.conf to redirect:       ║")
		line("║    model_dir = /opt/models                               ║")
	}
	line("╚══════════════════════════════════════════════════════════╝")
	line("")
	return b.String()
}
