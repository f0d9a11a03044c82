package model

// Target is a single survey pointing: the sky position at which one
// instance of the instrument footprint is placed. Field names follow the
// Euclid/SIM pointing format (degrees).
type Target struct {
	RA  float64 `json:"RA"`
	Dec float64 `json:"Dec"`

	// ProposalID tags the observing proposal a pointing belongs to.
	// Optional; zero when the pointing file carries no proposal column.
	ProposalID int `json:"proposalId,omitempty"`
}
