// Package target defines the operating-system/architecture pairs the IR is
// generated for. The matrix is an ordered value: generation and publish both
// walk it front to back, so logs and artifact listings are reproducible
// across runs.
package target

// OS is a strongly-typed operating system identifier.
type OS string

// Arch is a strongly-typed CPU architecture identifier.
type Arch string

// Canonical operating systems julec can generate IR for.
const (
	Windows OS = "windows"
	Linux   OS = "linux"
	Darwin  OS = "darwin"
)

// Canonical architectures julec can generate IR for.
const (
	AMD64 Arch = "amd64"
	ARM64 Arch = "arm64"
	I386  Arch = "i386"
)

// Spec identifies one compilation target. The pair itself is the identity;
// two Specs are equal when both fields are equal.
type Spec struct {
	OS   OS   `yaml:"os"`
	Arch Arch `yaml:"arch"`
}

// Label returns the canonical "{os}-{arch}" form used for compiler flags and
// artifact file names.
func (s Spec) Label() string {
	return string(s.OS) + "-" + string(s.Arch)
}

// ArtifactName returns the staged artifact file name for this target.
func (s Spec) ArtifactName() string {
	return s.Label() + ".cpp"
}

// Matrix is an ordered sequence of Specs. Order is deterministic and
// significant for reproducible logs, not for correctness.
type Matrix []Spec

// Labels returns the label of every entry, in matrix order.
func (m Matrix) Labels() []string {
	labels := make([]string, len(m))
	for i, s := range m {
		labels[i] = s.Label()
	}
	return labels
}

// Default returns the release matrix: every target the upstream distribution
// repository publishes IR for.
func Default() Matrix {
	return Matrix{
		{OS: Windows, Arch: AMD64},
		{OS: Windows, Arch: ARM64},
		{OS: Linux, Arch: AMD64},
		{OS: Linux, Arch: ARM64},
		{OS: Darwin, Arch: AMD64},
		{OS: Darwin, Arch: ARM64},
	}
}
