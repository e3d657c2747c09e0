package types

// CandidateStatus is the derived lifecycle state of a Candidate.
type CandidateStatus string

// Candidate states, in lifecycle order.
const (
	StatusPending        CandidateStatus = "pending"
	StatusLinkResolved   CandidateStatus = "link-resolved"
	StatusLinkMissing    CandidateStatus = "link-missing"
	StatusMetadataOK     CandidateStatus = "metadata-ok"
	StatusMetadataFailed CandidateStatus = "metadata-failed"
)

// FailureKind classifies why metadata is missing for a candidate.
type FailureKind string

const (
	// FailureNoLink means extraction was skipped because no link was resolved.
	FailureNoLink FailureKind = "no_link"
	// FailureSearch means the search collaborator errored, so there was nothing to extract.
	// The candidate has no link, but the search error is kept instead of the no-link
	// failure so callers can tell an outage from a product search engines cannot find.
	FailureSearch FailureKind = "search_error"
	// FailureExtraction means the extraction collaborator errored.
	FailureExtraction FailureKind = "extraction_error"
	// FailureInvalidSchema means the extracted record did not match the metadata schema.
	FailureInvalidSchema FailureKind = "invalid_schema"
)

// NoLinkReason is the reason recorded when extraction is skipped for lack of a link.
const NoLinkReason = "no link available"

// ExtractionFailure is a typed, human readable failure attached to a candidate.
type ExtractionFailure struct {
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
	URL    string      `json:"url,omitempty"`
}

// MetadataResult is either a successful ProductMetadata or an ExtractionFailure, never both.
type MetadataResult struct {
	Success bool               `json:"success"`
	Data    *ProductMetadata   `json:"data,omitempty"`
	Failure *ExtractionFailure `json:"failure,omitempty"`
}

// MetadataOK wraps a successful extraction.
func MetadataOK(data *ProductMetadata) *MetadataResult {
	return &MetadataResult{Success: true, Data: data}
}

// MetadataFailed wraps a failed extraction.
func MetadataFailed(kind FailureKind, reason, url string) *MetadataResult {
	return &MetadataResult{Failure: &ExtractionFailure{Kind: kind, Reason: reason, URL: url}}
}

// NoLinkFailure is the result recorded when no link was resolved.
func NoLinkFailure() *MetadataResult {
	return MetadataFailed(FailureNoLink, NoLinkReason, "")
}

// Candidate is one gift idea progressing through link resolution and metadata extraction.
// Link and Metadata are each assigned once by the orchestrator.
type Candidate struct {
	Index    int             `json:"index"`
	Name     string          `json:"name"`
	Idea     ProductIdea     `json:"idea"`
	Link     string          `json:"link,omitempty"`
	LinkErr  string          `json:"link_error,omitempty"`
	Metadata *MetadataResult `json:"metadata,omitempty"`

	linkDone bool
}

// NewCandidates pre-allocates one candidate per idea, preserving input order.
func NewCandidates(ideas []ProductIdea) []Candidate {
	candidates := make([]Candidate, len(ideas))
	for i, idea := range ideas {
		candidates[i] = Candidate{Index: i, Name: idea.Name, Idea: idea}
	}
	return candidates
}

// SetLink records the outcome of link resolution. An empty link with a nil error means no link was found.
func (c *Candidate) SetLink(link string, err error) {
	c.linkDone = true
	c.Link = link
	if err != nil {
		c.Link = ""
		c.LinkErr = err.Error()
	}
}

// HasLink reports whether a canonical link was resolved.
func (c *Candidate) HasLink() bool {
	return c.Link != ""
}

// Status derives the lifecycle state from the assigned fields.
func (c *Candidate) Status() CandidateStatus {
	switch {
	case c.Metadata != nil && c.Metadata.Success:
		return StatusMetadataOK
	case c.Metadata != nil:
		return StatusMetadataFailed
	case c.HasLink():
		return StatusLinkResolved
	case c.linkDone || c.LinkErr != "":
		return StatusLinkMissing
	default:
		return StatusPending
	}
}

// CandidateView is the serialized form of a Candidate including its derived status.
type CandidateView struct {
	Candidate
	Status CandidateStatus `json:"status"`
}

// Views attaches derived status to each candidate for output.
func Views(candidates []Candidate) []CandidateView {
	views := make([]CandidateView, len(candidates))
	for i := range candidates {
		views[i] = CandidateView{Candidate: candidates[i], Status: candidates[i].Status()}
	}
	return views
}
