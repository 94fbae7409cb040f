package tracking

import "fmt"

// Stage is the tracker's position in its lock cycle.
type Stage int

const (
	StageNone       Stage = iota // Idle; Detect is a usage error
	StageDetectFace              // Waiting for the detector to find a face
	StageMatchFace               // Following the face by template search
)

func (s Stage) String() string {
	switch s {
	case StageNone:
		return "NONE"
	case StageDetectFace:
		return "DETECT_FACE"
	case StageMatchFace:
		return "MATCH_FACE"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText encodes the stage by name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a stage name as produced by MarshalText.
func (s *Stage) UnmarshalText(text []byte) error {
	for _, st := range []Stage{StageNone, StageDetectFace, StageMatchFace} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("tracking: unknown stage %q", text)
}
