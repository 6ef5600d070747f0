package models

// Phase is the closed set of project phases a progress update or
// discussion artifact can be tagged with.
type Phase string

const (
	PhaseDiscussion  Phase = "discussion"
	PhaseDesign      Phase = "design"
	PhaseDevelopment Phase = "development"
	PhaseTesting     Phase = "testing"
	PhaseRelease     Phase = "release"
)

// ValidPhase reports whether p is one of the known phases.
func ValidPhase(p Phase) bool {
	switch p {
	case PhaseDiscussion, PhaseDesign, PhaseDevelopment, PhaseTesting, PhaseRelease:
		return true
	}
	return false
}

// ArtifactType is the closed set of discussion artifact kinds.
type ArtifactType string

const (
	ArtifactWireframe    ArtifactType = "wireframe"
	ArtifactDesignFile   ArtifactType = "design_file"
	ArtifactMeetingNotes ArtifactType = "meeting_notes"
	ArtifactDocument     ArtifactType = "document"
	ArtifactOther        ArtifactType = "other"
)

// ValidArtifactType reports whether t is one of the known artifact types.
func ValidArtifactType(t ArtifactType) bool {
	switch t {
	case ArtifactWireframe, ArtifactDesignFile, ArtifactMeetingNotes, ArtifactDocument, ArtifactOther:
		return true
	}
	return false
}
