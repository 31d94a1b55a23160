package domain

// IndexReport summarises one indexing pass.
type IndexReport struct {
	// RunID identifies the pass in log output.
	RunID string

	// Host is the label the files were recorded under.
	Host string

	// Root is the traversal root.
	Root string

	// Directories is the number of directories visited.
	Directories int

	// Files is the number of files hashed and offered to the catalog.
	Files int

	// NewContent counts content identities inserted by this pass.
	NewContent int

	// ContentConflicts counts identities that were already catalogued.
	ContentConflicts int

	// PathConflicts counts (host, path) keys that were already catalogued.
	PathConflicts int

	// ReadErrors counts files skipped because they could not be read.
	ReadErrors int

	// Excluded counts entries skipped by exclusion patterns.
	Excluded int
}

// MismatchReason says why a catalogued file failed verification.
type MismatchReason string

// Mismatch reasons.
const (
	// MismatchChecksum means the recomputed checksum differs.
	MismatchChecksum MismatchReason = "checksum"

	// MismatchSize means the current size differs from the catalogued size.
	MismatchSize MismatchReason = "size"

	// MismatchUnreadable means the file is gone or cannot be read.
	MismatchUnreadable MismatchReason = "unreadable"
)

// IntegrityMismatch is one catalogued file that no longer matches its record.
type IntegrityMismatch struct {
	Path     string
	Reason   MismatchReason
	Expected ContentID
	Actual   ContentID
	Err      error
}

// IntegrityReport summarises a verification pass for one host.
type IntegrityReport struct {
	RunID      string
	Host       string
	OK         int
	Mismatches []IntegrityMismatch
}

// MismatchCount returns the number of failed files.
func (r *IntegrityReport) MismatchCount() int {
	return len(r.Mismatches)
}

// Passed is true when every catalogued file verified.
func (r *IntegrityReport) Passed() bool {
	return len(r.Mismatches) == 0
}

// CompareReport summarises coverage of catalog 1 by catalog 2.
type CompareReport struct {
	RunID string

	// Entries is the number of content records read from catalog 1.
	Entries int

	// Reference is the number of distinct identities in catalog 2.
	Reference int

	// Missing lists identities of catalog 1 absent from catalog 2.
	Missing []ContentRecord
}

// Gaps returns the number of coverage gaps.
func (r *CompareReport) Gaps() int {
	return len(r.Missing)
}

// Covered is true when catalog 2 holds every identity of catalog 1.
func (r *CompareReport) Covered() bool {
	return len(r.Missing) == 0
}
