// Package resolver maps application-requested model paths to converted
// model artifacts. The application asks for its compiled vendor model
// (e.g. model.dla); the shim loads a converted sibling (model.dla.onnx),
// optionally redirected into a configured directory.
package resolver

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Output receives the remediation block for missing models. Tests swap it.
var Output io.Writer = os.Stderr

// Candidate computes the path the shim will probe. It is a pure function
// of its arguments:
//
//	modelDir empty:  /usr/share/models/net.dla → /usr/share/models/net.dla.onnx
//	modelDir set:    /usr/share/models/net.dla → <modelDir>/net.dla.onnx
func Candidate(originalPath, suffix, modelDir string) string {
	if modelDir == "" {
		// Plain concatenation, no path cleaning: the application's path
		// is reproduced byte for byte with the suffix appended.
		return originalPath + suffix
	}
	sep := "/"
	if strings.HasSuffix(modelDir, "/") {
		sep = ""
	}
	return modelDir + sep + filepath.Base(originalPath) + suffix
}

// Resolve computes the candidate path and verifies it is readable. On
// failure it writes an actionable remediation block to Output and returns
// a *NotFoundError naming everything the operator needs to fix it.
func Resolve(originalPath, suffix, modelDir string) (string, error) {
	candidate := Candidate(originalPath, suffix, modelDir)

	f, err := os.Open(candidate)
	if err != nil {
		nf := &NotFoundError{
			OriginalPath: originalPath,
			Probed:       candidate,
			ModelDir:     modelDir,
			Suffix:       suffix,
		}
		io.WriteString(Output, nf.Remediation())
		return "", nf
	}
	f.Close()
	return candidate, nil
}
