package domain

// ArtifactKind identifies one of the derived outputs produced from a single
// fetched payload.
type ArtifactKind string

const (
	ArtifactRaw       ArtifactKind = "raw"
	ArtifactFormatted ArtifactKind = "formatted"
	ArtifactUnits     ArtifactKind = "units"
)

// ArtifactTargets holds the destination path for each artifact kind. An
// empty string is the skip sentinel: that artifact is not derived and no
// parsing work is performed for it.
type ArtifactTargets struct {
	Raw       string
	Formatted string
	Units     string
}

// WriteResult reports the outcome of deriving and writing one artifact.
// Artifacts are independent: a failed result never prevents siblings from
// being attempted.
type WriteResult struct {
	Kind    ArtifactKind
	Path    string
	Skipped bool
	Err     error
}
