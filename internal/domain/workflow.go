package domain

// transferTransitions is the forward-only lifecycle of a Transfer. The one
// backward edge, rendition_pending -> received, fires when a rendition is
// deleted or rejected, so a transfer never gets stuck waiting on a rendition
// that will not be approved.
var transferTransitions = map[TransferStatus][]TransferStatus{
	TransferPending:          {TransferReceived},
	TransferReceived:         {TransferRenditionPending},
	TransferRenditionPending: {TransferCompleted, TransferReceived},
	TransferCompleted:        {},
}

// CanTransition reports whether a Transfer may move from one status to
// another. Completed is terminal.
func CanTransition(from, to TransferStatus) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// RenditionDecided reports whether a rendition has already been approved or
// rejected; a decided rendition cannot be re-decided or deleted.
func RenditionDecided(s RenditionStatus) bool {
	return s == RenditionApproved || s == RenditionRejected
}
