package repository

// RootKind identifies a procedure search root
type RootKind string

const (
	UserProcedures RootKind = "User Procedures" // primary root, includes resolve here
	IgorProcedures RootKind = "Igor Procedures" // secondary root, discovery only
)

// Roots holds procedure search roots
type Roots struct {
	UserFiles string // Igor Pro user files folder, empty when both roots were configured
	User      string
	Igor      string
}

// Candidate represents a discovered procedure file
type Candidate struct {
	Name    string   // Procedure name (file stem)
	Path    string   // File location
	Root    RootKind // Root the file was found in
	Hash    uint64   // Content hash, computed for stems present in both roots
	Differs bool     // Shadowed copy content differs from the winning copy
}

// Discovery holds discovered candidates ordered by loading priority
type Discovery struct {
	Candidates []*Candidate
	Shadowed   []*Candidate // Lower priority copies dropped by stem
}

// Paths returns candidate locations in priority order
func (d *Discovery) Paths() []string {
	result := make([]string, 0, len(d.Candidates))
	for _, candidate := range d.Candidates {
		result = append(result, candidate.Path)
	}
	return result
}

// Lookup returns the winning candidate for a procedure name
func (d *Discovery) Lookup(name string) *Candidate {
	for _, candidate := range d.Candidates {
		if candidate.Name == name {
			return candidate
		}
	}
	return nil
}
